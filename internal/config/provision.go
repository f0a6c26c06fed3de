package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Profile is the display-only restaurant identity used in prompts.
type Profile struct {
	RestaurantName string `envconfig:"RESTAURANT_NAME" default:"FoodInn"`
	WebsiteURL     string `envconfig:"WEBSITE_URL" default:"foodinn.ie/menu"`
}

type RetellProvisionConfig struct {
	APIKey     string `envconfig:"RETELL_API_KEY" required:"true"`
	WebhookURL string `envconfig:"WEBHOOK_URL" required:"true"`
	BaseURL    string `envconfig:"RETELL_BASE_URL" default:"https://api.retellai.com"`
	LLMID      string `envconfig:"RETELL_LLM_ID"`
	AgentID    string `envconfig:"RETELL_AGENT_ID"`
	Model      string `envconfig:"RETELL_MODEL" default:"gpt-4.1-mini"`
	VoiceID    string `envconfig:"RETELL_VOICE_ID" default:"11labs-Adrian"`
	Profile
}

type VapiProvisionConfig struct {
	APIKey      string `envconfig:"VAPI_API_KEY" required:"true"`
	WebhookURL  string `envconfig:"WEBHOOK_URL" required:"true"`
	BaseURL     string `envconfig:"VAPI_BASE_URL" default:"https://api.vapi.ai"`
	AssistantID string `envconfig:"VAPI_ASSISTANT_ID"`
	Model       string `envconfig:"VAPI_MODEL" default:"gpt-4o"`
	VoiceID     string `envconfig:"VAPI_VOICE_ID" default:"cgSgspJ2msm6clMCkdW9"`
	Profile
}

type TelnyxProvisionConfig struct {
	APIKey      string `envconfig:"TELNYX_API_KEY" required:"true"`
	WebhookURL  string `envconfig:"WEBHOOK_URL" required:"true"`
	BaseURL     string `envconfig:"TELNYX_BASE_URL" default:"https://api.telnyx.com/v2"`
	AssistantID string `envconfig:"TELNYX_ASSISTANT_ID"`
	Model       string `envconfig:"TELNYX_MODEL" default:"meta-llama/Meta-Llama-3.1-70B-Instruct"`
	Voice       string `envconfig:"TELNYX_VOICE" default:"Telnyx.KokoroTTS.af_sarah"`
	Profile
}

// LoadProvision fills any of the *ProvisionConfig structs. Missing required
// values are reported by name.
func LoadProvision[T any]() (*T, error) {
	var cfg T
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
