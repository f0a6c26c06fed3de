package provision

import (
	"context"
	"fmt"
	"net/http"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/pkg/telnyx"

	"github.com/rs/zerolog/log"
)

// Telnyx calls are kept short; the prompt tells the model so.
const telnyxCallMinutes = 1

type telnyxProvisioner struct {
	cfg    config.TelnyxProvisionConfig
	client *telnyx.Client
}

func NewTelnyxProvisioner(cfg config.TelnyxProvisionConfig, client *telnyx.Client) Provisioner {
	return &telnyxProvisioner{cfg: cfg, client: client}
}

func (p *telnyxProvisioner) assistant() telnyx.Assistant {
	var tools []telnyx.AssistantTool
	for _, def := range agent.Tools() {
		tools = append(tools, telnyx.AssistantTool{
			Type: "webhook",
			Webhook: telnyx.WebhookToolParams{
				Name:        def.Name,
				Description: def.Description,
				URL:         toolURL(p.cfg.WebhookURL, def.Name),
				Method:      http.MethodPost,
				BodyParams:  def.Parameters,
			},
		})
	}
	profile := profileOf(p.cfg.Profile, telnyxCallMinutes)
	return telnyx.Assistant{
		Name:          agent.AssistantName,
		Model:         p.cfg.Model,
		Instructions:  agent.SystemPrompt(profile),
		Greeting:      agent.Greeting(profile),
		Tools:         tools,
		VoiceSettings: &telnyx.VoiceSettings{Voice: p.cfg.Voice},
	}
}

func (p *telnyxProvisioner) Provision(ctx context.Context) (Result, error) {
	result := Result{Platform: config.PlatformTelnyx}

	var resp *telnyx.AssistantResponse
	var err error
	if p.cfg.AssistantID != "" {
		log.Info().Str("assistant_id", p.cfg.AssistantID).Msg("updating Telnyx assistant")
		resp, err = p.client.UpdateAssistant(ctx, p.cfg.AssistantID, p.assistant())
	} else {
		log.Info().Msg("creating Telnyx assistant")
		resp, err = p.client.CreateAssistant(ctx, p.assistant())
		result.Created = true
	}
	if err != nil {
		return Result{}, fmt.Errorf("telnyx assistant: %w", err)
	}

	id := resp.AssistantID()
	if id == "" {
		id = p.cfg.AssistantID
	}
	result.Env = []EnvVar{{Key: "TELNYX_ASSISTANT_ID", Value: id}}
	return result, nil
}
