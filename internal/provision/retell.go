package provision

import (
	"context"
	"fmt"
	"strings"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/pkg/retell"

	"github.com/rs/zerolog/log"
)

const (
	retellMaxCallDurationMs     = 300000
	retellEndCallAfterSilenceMs = 30000
	retellBackchannelFrequency  = 0.8
)

var retellBackchannelWords = []string{"yeah", "uh-huh", "okay", "got it"}

type retellProvisioner struct {
	cfg    config.RetellProvisionConfig
	client *retell.Client
}

func NewRetellProvisioner(cfg config.RetellProvisionConfig, client *retell.Client) Provisioner {
	return &retellProvisioner{cfg: cfg, client: client}
}

func (p *retellProvisioner) llmRequest() retell.LLMRequest {
	var tools []retell.CustomTool
	for _, def := range agent.Tools() {
		tools = append(tools, retell.CustomTool{
			Type:                "custom",
			Name:                def.Name,
			Description:         def.Description,
			URL:                 toolURL(p.cfg.WebhookURL, def.Name),
			SpeakAfterExecution: true,
			Parameters:          def.Parameters,
		})
	}
	return retell.LLMRequest{
		Model:         p.cfg.Model,
		BeginMessage:  agent.BeginMessage,
		GeneralPrompt: agent.SystemPrompt(profileOf(p.cfg.Profile, retellMaxCallDurationMs/60000)),
		GeneralTools:  tools,
	}
}

func (p *retellProvisioner) agentRequest(llmID string) retell.AgentRequest {
	return retell.AgentRequest{
		ResponseEngine:        retell.ResponseEngine{Type: "retell-llm", LLMID: llmID},
		AgentName:             agent.AssistantName,
		WebhookURL:            strings.TrimRight(p.cfg.WebhookURL, "/") + "/webhook/retell",
		VoiceID:               p.cfg.VoiceID,
		Language:              "en-US",
		MaxCallDurationMs:     retellMaxCallDurationMs,
		EndCallAfterSilenceMs: retellEndCallAfterSilenceMs,
		EnableBackchannel:     true,
		BackchannelFrequency:  retellBackchannelFrequency,
		BackchannelWords:      retellBackchannelWords,
	}
}

func (p *retellProvisioner) Provision(ctx context.Context) (Result, error) {
	result := Result{Platform: config.PlatformRetell}

	var llm *retell.LLMResponse
	var err error
	if p.cfg.LLMID != "" {
		log.Info().Str("llm_id", p.cfg.LLMID).Msg("updating Retell LLM")
		llm, err = p.client.UpdateLLM(ctx, p.cfg.LLMID, p.llmRequest())
	} else {
		log.Info().Msg("creating Retell LLM")
		llm, err = p.client.CreateLLM(ctx, p.llmRequest())
		result.Created = true
	}
	if err != nil {
		return Result{}, fmt.Errorf("retell llm: %w", err)
	}
	llmID := llm.LLMID
	if llmID == "" {
		llmID = p.cfg.LLMID
	}

	var ag *retell.AgentResponse
	if p.cfg.AgentID != "" {
		log.Info().Str("agent_id", p.cfg.AgentID).Msg("updating Retell agent")
		ag, err = p.client.UpdateAgent(ctx, p.cfg.AgentID, p.agentRequest(llmID))
	} else {
		log.Info().Msg("creating Retell agent")
		ag, err = p.client.CreateAgent(ctx, p.agentRequest(llmID))
		result.Created = true
	}
	if err != nil {
		return Result{}, fmt.Errorf("retell agent: %w", err)
	}
	agentID := ag.AgentID
	if agentID == "" {
		agentID = p.cfg.AgentID
	}

	result.Env = []EnvVar{
		{Key: "RETELL_AGENT_ID", Value: agentID},
		{Key: "RETELL_LLM_ID", Value: llmID},
	}
	return result, nil
}
