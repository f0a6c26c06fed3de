package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.retellai.com"

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("retell: unexpected status %d: %s", e.StatusCode, e.Body)
}

type CustomTool struct {
	Type                string `json:"type"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	URL                 string `json:"url"`
	SpeakAfterExecution bool   `json:"speak_after_execution"`
	Parameters          any    `json:"parameters"`
}

type LLMRequest struct {
	Model         string       `json:"model"`
	BeginMessage  string       `json:"begin_message"`
	GeneralPrompt string       `json:"general_prompt"`
	GeneralTools  []CustomTool `json:"general_tools"`
}

type LLMResponse struct {
	LLMID   string `json:"llm_id"`
	Version int    `json:"version"`
}

type ResponseEngine struct {
	Type  string `json:"type"`
	LLMID string `json:"llm_id"`
}

type AgentRequest struct {
	ResponseEngine        ResponseEngine `json:"response_engine"`
	AgentName             string         `json:"agent_name"`
	WebhookURL            string         `json:"webhook_url,omitempty"`
	VoiceID               string         `json:"voice_id"`
	Language              string         `json:"language"`
	MaxCallDurationMs     int            `json:"max_call_duration_ms"`
	EndCallAfterSilenceMs int            `json:"end_call_after_silence_ms"`
	EnableBackchannel     bool           `json:"enable_backchannel"`
	BackchannelFrequency  float64        `json:"backchannel_frequency"`
	BackchannelWords      []string       `json:"backchannel_words"`
}

type AgentResponse struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateLLM(ctx context.Context, req LLMRequest) (*LLMResponse, error) {
	var resp LLMResponse
	if err := c.do(ctx, http.MethodPost, "/create-retell-llm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateLLM(ctx context.Context, llmID string, req LLMRequest) (*LLMResponse, error) {
	var resp LLMResponse
	if err := c.do(ctx, http.MethodPatch, "/update-retell-llm/"+url.PathEscape(llmID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateAgent(ctx context.Context, req AgentRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := c.do(ctx, http.MethodPost, "/create-agent", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateAgent(ctx context.Context, agentID string, req AgentRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := c.do(ctx, http.MethodPatch, "/update-agent/"+url.PathEscape(agentID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
