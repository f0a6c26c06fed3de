package handlers

import (
	"errors"
	"net/http"

	"phone_orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	errMissingCallID    = errors.New("Missing call id")
	errMissingToolCalls = errors.New("Missing tool calls")
	errInvalidBody      = errors.New("Invalid request format")
)

// Adapter translates one vendor's tool-call envelope to and from the
// platform-neutral ToolInvocation.
type Adapter interface {
	Platform() string
	// ParseToolInvocations extracts invocations from a raw body. tool is the
	// name taken from the route, empty when the vendor names tools in the body.
	ParseToolInvocations(tool string, body []byte) ([]services.ToolInvocation, error)
	// RenderToolResults builds the response. results[i] belongs to invs[i].
	RenderToolResults(invs []services.ToolInvocation, results []any) (any, error)
}

type ToolHandler struct {
	adapter    Adapter
	dispatcher *services.ToolDispatcher
}

func NewToolHandler(adapter Adapter, dispatcher *services.ToolDispatcher) *ToolHandler {
	return &ToolHandler{adapter: adapter, dispatcher: dispatcher}
}

// HandleTool serves POST /tools/:tool.
func (h *ToolHandler) HandleTool(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody.Error()})
		return
	}
	h.serve(c, c.Param("tool"), body)
}

func (h *ToolHandler) serve(c *gin.Context, tool string, body []byte) {
	invs, err := h.adapter.ParseToolInvocations(tool, body)
	if err != nil {
		log.Warn().Err(err).Str("platform", h.adapter.Platform()).Str("tool", tool).Msg("rejected tool request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]any, len(invs))
	for i, inv := range invs {
		results[i] = h.dispatcher.Dispatch(c.Request.Context(), inv)
	}

	out, err := h.adapter.RenderToolResults(invs, results)
	if err != nil {
		log.Error().Err(err).Str("platform", h.adapter.Platform()).Msg("failed to render tool results")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, out)
}
