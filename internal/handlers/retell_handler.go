package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"phone_orders/internal/config"
	"phone_orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RetellCall struct {
	CallID     string `json:"call_id"`
	AgentID    string `json:"agent_id"`
	CallStatus string `json:"call_status"`
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
}

type RetellToolRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
	Call RetellCall     `json:"call"`
}

type RetellEvent struct {
	Event       string      `json:"event"`
	Call        *RetellCall `json:"call,omitempty"`
	CallInbound *struct {
		AgentID    string `json:"agent_id"`
		FromNumber string `json:"from_number"`
		ToNumber   string `json:"to_number"`
	} `json:"call_inbound,omitempty"`
}

type RetellAdapter struct{}

func (RetellAdapter) Platform() string { return string(config.PlatformRetell) }

func (RetellAdapter) ParseToolInvocations(tool string, body []byte) ([]services.ToolInvocation, error) {
	var req RetellToolRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errInvalidBody
	}
	if req.Call.CallID == "" {
		return nil, errMissingCallID
	}
	if tool == "" {
		tool = req.Name
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}
	return []services.ToolInvocation{{
		ID:     req.Call.CallID,
		CallID: req.Call.CallID,
		Tool:   tool,
		Args:   req.Args,
	}}, nil
}

func (RetellAdapter) RenderToolResults(invs []services.ToolInvocation, results []any) (any, error) {
	if len(results) != 1 {
		return nil, errors.New("retell expects exactly one result per request")
	}
	return results[0], nil
}

type RetellHandler struct {
	orders  services.OrderService
	profile config.Profile
}

func NewRetellHandler(orders services.OrderService, profile config.Profile) *RetellHandler {
	return &RetellHandler{orders: orders, profile: profile}
}

// HandleInbound answers the inbound-call webhook with per-call dynamic variables.
func (h *RetellHandler) HandleInbound(c *gin.Context) {
	var event RetellEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		log.Warn().Err(err).Str("platform", "retell").Msg("unreadable inbound call event")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if event.Event != "call_inbound" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var from string
	if event.CallInbound != nil {
		from = event.CallInbound.FromNumber
	}
	log.Info().Str("platform", "retell").Str("from", from).Msg("inbound call")

	c.JSON(http.StatusOK, gin.H{
		"call_inbound": gin.H{
			"dynamic_variables": gin.H{
				"restaurant_name": h.profile.RestaurantName,
				"website_url":     h.profile.WebsiteURL,
			},
		},
	})
}

// HandleEvent drops the pending order once Retell reports the call over.
func (h *RetellHandler) HandleEvent(c *gin.Context) {
	var event RetellEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		log.Warn().Err(err).Str("platform", "retell").Msg("unreadable call event")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var callID string
	if event.Call != nil {
		callID = event.Call.CallID
	}
	logger := log.With().Str("platform", "retell").Str("call_id", callID).Logger()
	logger.Info().Str("event", event.Event).Msg("call event")

	switch event.Event {
	case "call_ended", "call_analyzed":
		if callID != "" {
			if _, err := h.orders.Discard(c.Request.Context(), callID); err != nil {
				logger.Error().Err(err).Msg("failed to discard order")
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
