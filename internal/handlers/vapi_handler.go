package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"phone_orders/internal/config"
	"phone_orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type VapiFunctionCall struct {
	Name string `json:"name"`
	// Arguments arrives either as an object or as a JSON-encoded string.
	Arguments json.RawMessage `json:"arguments"`
}

type VapiToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function VapiFunctionCall `json:"function"`
}

type VapiCall struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type VapiMessage struct {
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	EndedReason  string         `json:"endedReason"`
	ToolCallList []VapiToolCall `json:"toolCallList"`
	Call         VapiCall       `json:"call"`
}

type VapiWebhook struct {
	Message VapiMessage `json:"message"`
}

type VapiToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

type VapiAdapter struct{}

func (VapiAdapter) Platform() string { return string(config.PlatformVapi) }

func (VapiAdapter) ParseToolInvocations(_ string, body []byte) ([]services.ToolInvocation, error) {
	var hook VapiWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, errInvalidBody
	}
	if len(hook.Message.ToolCallList) == 0 {
		return nil, errMissingToolCalls
	}
	if hook.Message.Call.ID == "" {
		return nil, errMissingCallID
	}

	invs := make([]services.ToolInvocation, 0, len(hook.Message.ToolCallList))
	for _, tc := range hook.Message.ToolCallList {
		args, err := decodeVapiArguments(tc.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("tool call %s: %w", tc.ID, err)
		}
		invs = append(invs, services.ToolInvocation{
			ID:     tc.ID,
			CallID: hook.Message.Call.ID,
			Tool:   tc.Function.Name,
			Args:   args,
		})
	}
	return invs, nil
}

func decodeVapiArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return args, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, errInvalidBody
		}
		if encoded == "" {
			return args, nil
		}
		raw = []byte(encoded)
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, errors.New("Invalid tool arguments")
	}
	return args, nil
}

func (VapiAdapter) RenderToolResults(invs []services.ToolInvocation, results []any) (any, error) {
	out := make([]VapiToolResult, len(invs))
	for i, inv := range invs {
		encoded, err := json.Marshal(results[i])
		if err != nil {
			return nil, fmt.Errorf("encode result for %s: %w", inv.ID, err)
		}
		out[i] = VapiToolResult{ToolCallID: inv.ID, Result: string(encoded)}
	}
	return gin.H{"results": out}, nil
}

type VapiHandler struct {
	tools  *ToolHandler
	orders services.OrderService
}

func NewVapiHandler(tools *ToolHandler, orders services.OrderService) *VapiHandler {
	return &VapiHandler{tools: tools, orders: orders}
}

// HandleWebhook serves the single Vapi server URL. Tool calls are dispatched,
// call termination drops the pending order and every other message is acknowledged.
func (h *VapiHandler) HandleWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody.Error()})
		return
	}

	var hook VapiWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody.Error()})
		return
	}
	msg := hook.Message
	logger := log.With().Str("platform", "vapi").Str("call_id", msg.Call.ID).Logger()
	logger.Debug().Str("type", msg.Type).Msg("webhook received")

	switch msg.Type {
	case "tool-calls":
		h.tools.serve(c, "", body)
		return
	case "status-update":
		status := msg.Status
		if status == "" {
			status = msg.Call.Status
		}
		logger.Info().Str("status", status).Msg("call status")
		if status == "ended" {
			h.discard(c, msg.Call.ID)
		}
	case "end-of-call-report":
		logger.Info().Str("ended_reason", msg.EndedReason).Msg("call ended")
		h.discard(c, msg.Call.ID)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *VapiHandler) discard(c *gin.Context, callID string) {
	if callID == "" {
		return
	}
	if _, err := h.orders.Discard(c.Request.Context(), callID); err != nil {
		log.Error().Err(err).Str("platform", "vapi").Str("call_id", callID).Msg("failed to discard order")
	}
}
