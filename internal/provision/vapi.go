package provision

import (
	"context"
	"fmt"
	"strings"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/pkg/vapi"

	"github.com/rs/zerolog/log"
)

const vapiMaxDurationSeconds = 300

type vapiProvisioner struct {
	cfg    config.VapiProvisionConfig
	client *vapi.Client
}

func NewVapiProvisioner(cfg config.VapiProvisionConfig, client *vapi.Client) Provisioner {
	return &vapiProvisioner{cfg: cfg, client: client}
}

func (p *vapiProvisioner) assistant() vapi.Assistant {
	var tools []vapi.Tool
	for _, def := range agent.Tools() {
		tools = append(tools, vapi.Tool{
			Type: "function",
			Function: vapi.Function{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return vapi.Assistant{
		Name: agent.AssistantName,
		Model: vapi.Model{
			Provider: "openai",
			Model:    p.cfg.Model,
			Messages: []vapi.Message{{
				Role:    "system",
				Content: agent.SystemPrompt(profileOf(p.cfg.Profile, vapiMaxDurationSeconds/60)),
			}},
			Tools: tools,
		},
		Voice:              vapi.Voice{Provider: "11labs", VoiceID: p.cfg.VoiceID},
		FirstMessage:       agent.BeginMessage,
		MaxDurationSeconds: vapiMaxDurationSeconds,
		EndCallMessage:     agent.EndCallMessage,
		Server:             vapi.Server{URL: strings.TrimRight(p.cfg.WebhookURL, "/") + "/webhook/vapi"},
	}
}

func (p *vapiProvisioner) Provision(ctx context.Context) (Result, error) {
	result := Result{Platform: config.PlatformVapi}

	var resp *vapi.AssistantResponse
	var err error
	if p.cfg.AssistantID != "" {
		log.Info().Str("assistant_id", p.cfg.AssistantID).Msg("updating Vapi assistant")
		resp, err = p.client.UpdateAssistant(ctx, p.cfg.AssistantID, p.assistant())
	} else {
		log.Info().Msg("creating Vapi assistant")
		resp, err = p.client.CreateAssistant(ctx, p.assistant())
		result.Created = true
	}
	if err != nil {
		return Result{}, fmt.Errorf("vapi assistant: %w", err)
	}

	id := resp.ID
	if id == "" {
		id = p.cfg.AssistantID
	}
	result.Env = []EnvVar{{Key: "VAPI_ASSISTANT_ID", Value: id}}
	return result, nil
}
