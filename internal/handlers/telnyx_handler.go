package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/internal/services"
	"phone_orders/pkg/telnyx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// telnyxCallIDKeys are tried in order to correlate a flat tool body with its call.
var telnyxCallIDKeys = []string{"conversation_id", "call_control_id", "call_id"}

const telnyxUnknownCall = "unknown"

type TelnyxAdapter struct{}

func (TelnyxAdapter) Platform() string { return string(config.PlatformTelnyx) }

func (TelnyxAdapter) ParseToolInvocations(tool string, body []byte) ([]services.ToolInvocation, error) {
	args := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			return nil, errInvalidBody
		}
	}

	callID := telnyxUnknownCall
	for _, key := range telnyxCallIDKeys {
		if id := services.StringArg(args, key); id != "" {
			callID = id
			break
		}
	}

	return []services.ToolInvocation{{
		ID:     callID,
		CallID: callID,
		Tool:   tool,
		Args:   args,
	}}, nil
}

func (TelnyxAdapter) RenderToolResults(_ []services.ToolInvocation, results []any) (any, error) {
	if len(results) != 1 {
		return nil, fmt.Errorf("telnyx expects one result, got %d", len(results))
	}
	return results[0], nil
}

// CallController is the part of the Telnyx call control API the lifecycle handler drives.
type CallController interface {
	AnswerCall(ctx context.Context, callControlID string) error
	StartAIAssistant(ctx context.Context, callControlID string, req telnyx.StartAIAssistantRequest) error
}

type TelnyxMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TelnyxPayload struct {
	CallControlID  string          `json:"call_control_id"`
	ConversationID string          `json:"conversation_id"`
	Direction      string          `json:"direction"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	HangupCause    string          `json:"hangup_cause"`
	MessageHistory []TelnyxMessage `json:"message_history"`
}

type TelnyxWebhookEvent struct {
	Data struct {
		EventType string        `json:"event_type"`
		ID        string        `json:"id"`
		Payload   TelnyxPayload `json:"payload"`
	} `json:"data"`
}

type TelnyxHandler struct {
	calls   CallController
	orders  services.OrderService
	cfg     config.TelnyxConfig
	profile agent.Profile
}

func NewTelnyxHandler(calls CallController, orders services.OrderService, cfg config.TelnyxConfig, profile agent.Profile) *TelnyxHandler {
	return &TelnyxHandler{calls: calls, orders: orders, cfg: cfg, profile: profile}
}

// HandleCallEvent always answers 200 so Telnyx never retries a lifecycle event.
func (h *TelnyxHandler) HandleCallEvent(c *gin.Context) {
	var event TelnyxWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		log.Warn().Err(err).Str("platform", "telnyx").Msg("unreadable call event")
		c.Status(http.StatusOK)
		return
	}

	eventType := event.Data.EventType
	payload := event.Data.Payload
	logger := log.With().
		Str("platform", "telnyx").
		Str("call_id", payload.CallControlID).
		Str("event", eventType).
		Logger()

	if err := h.handleEvent(c.Request.Context(), logger, eventType, payload); err != nil {
		logger.Error().Err(err).Msg("error handling call event")
	}
	c.Status(http.StatusOK)
}

func (h *TelnyxHandler) handleEvent(ctx context.Context, logger zerolog.Logger, eventType string, payload TelnyxPayload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch eventType {
	case "call.initiated":
		if payload.Direction != "incoming" {
			return nil
		}
		logger.Info().Str("from", payload.From).Msg("incoming call, answering")
		return h.calls.AnswerCall(ctx, payload.CallControlID)

	case "call.answered":
		logger.Info().Msg("call answered, starting AI assistant")
		return h.calls.StartAIAssistant(ctx, payload.CallControlID, telnyx.StartAIAssistantRequest{
			Assistant: telnyx.AssistantRef{
				ID:           h.cfg.AssistantID,
				Instructions: agent.SystemPrompt(h.profile),
			},
			Voice:                h.cfg.Voice,
			Greeting:             agent.Greeting(h.profile),
			InterruptionSettings: &telnyx.InterruptionSettings{Enable: true},
			Transcription:        &telnyx.Transcription{Model: h.cfg.TranscriptionModel},
		})

	case "call.ai_gather.ended":
		logger.Info().Int("messages", len(payload.MessageHistory)).Msg("AI conversation ended")
		for i, msg := range payload.MessageHistory {
			logger.Info().Int("turn", i+1).Str("role", msg.Role).Msg(msg.Content)
		}
		return h.discard(ctx, payload)

	case "call.hangup":
		logger.Info().Str("cause", payload.HangupCause).Msg("call ended")
		return h.discard(ctx, payload)

	default:
		logger.Debug().Msg("unhandled event")
		return nil
	}
}

// discard drops orders keyed by either id Telnyx may have used on the tool routes.
func (h *TelnyxHandler) discard(ctx context.Context, payload TelnyxPayload) error {
	for _, id := range []string{payload.CallControlID, payload.ConversationID} {
		if id == "" {
			continue
		}
		if _, err := h.orders.Discard(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
