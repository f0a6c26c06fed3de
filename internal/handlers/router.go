package handlers

import (
	"phone_orders/internal/config"

	"github.com/gin-gonic/gin"
)

// lifecycleRoutes receive vendor call events. A panic there is still acknowledged.
var lifecycleRoutes = []string{routeRetellInbound, routeRetellEvents, routeVapiWebhook, routeTelnyxCall}

const (
	routeTool          = "/tools/:tool"
	routeRetellInbound = "/webhook/inbound"
	routeRetellEvents  = "/webhook/retell"
	routeVapiWebhook   = "/webhook/vapi"
	routeTelnyxCall    = "/webhooks/call"
)

// AdapterFor returns the tool envelope adapter for a platform.
func AdapterFor(p config.Platform) Adapter {
	switch p {
	case config.PlatformVapi:
		return VapiAdapter{}
	case config.PlatformTelnyx:
		return TelnyxAdapter{}
	default:
		return RetellAdapter{}
	}
}

type Router struct {
	Platform config.Platform
	Tools    *ToolHandler
	Health   *HealthHandler
	Retell   *RetellHandler
	Vapi     *VapiHandler
	Telnyx   *TelnyxHandler
	// Admin is optional. The admin routes exist only when it is set.
	Admin *AdminHandler
}

func (r Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(RequestLogger(), Recovery(lifecycleRoutes...))

	engine.GET("/health", r.Health.Health)

	switch r.Platform {
	case config.PlatformRetell:
		engine.POST(routeTool, r.Tools.HandleTool)
		engine.POST(routeRetellInbound, r.Retell.HandleInbound)
		engine.POST(routeRetellEvents, r.Retell.HandleEvent)
	case config.PlatformVapi:
		engine.POST(routeVapiWebhook, r.Vapi.HandleWebhook)
	case config.PlatformTelnyx:
		engine.POST(routeTool, r.Tools.HandleTool)
		engine.POST(routeTelnyxCall, r.Telnyx.HandleCallEvent)
	}

	if r.Admin != nil {
		admin := engine.Group("/admin", r.Admin.RequireToken)
		{
			admin.GET("/orders", r.Admin.ListOrders)
			admin.GET("/orders/:order_number", r.Admin.GetOrder)
		}
	}

	return engine
}
