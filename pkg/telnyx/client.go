package telnyx

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

const DefaultBaseURL = "https://api.telnyx.com/v2"

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// APIError is returned for any non-2xx answer from Telnyx.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telnyx: unexpected status %d: %s", e.StatusCode, e.Body)
}

type AssistantRef struct {
	ID           string `json:"id"`
	Instructions string `json:"instructions,omitempty"`
}

type InterruptionSettings struct {
	Enable bool `json:"enable"`
}

type Transcription struct {
	Model string `json:"model"`
}

type StartAIAssistantRequest struct {
	Assistant            AssistantRef          `json:"assistant"`
	Voice                string                `json:"voice,omitempty"`
	Greeting             string                `json:"greeting,omitempty"`
	InterruptionSettings *InterruptionSettings `json:"interruption_settings,omitempty"`
	Transcription        *Transcription        `json:"transcription,omitempty"`
}

type WebhookToolParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Method      string `json:"method"`
	BodyParams  any    `json:"body_parameters"`
}

type AssistantTool struct {
	Type    string            `json:"type"`
	Webhook WebhookToolParams `json:"webhook"`
}

type VoiceSettings struct {
	Voice string `json:"voice"`
}

type Assistant struct {
	Name          string          `json:"name"`
	Model         string          `json:"model"`
	Instructions  string          `json:"instructions"`
	Greeting      string          `json:"greeting,omitempty"`
	Tools         []AssistantTool `json:"tools,omitempty"`
	VoiceSettings *VoiceSettings  `json:"voice_settings,omitempty"`
}

type AssistantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data *struct {
		ID string `json:"id"`
	} `json:"data,omitempty"`
}

// AssistantID reads the id whether or not the answer is wrapped in "data".
func (r *AssistantResponse) AssistantID() string {
	if r.ID != "" {
		return r.ID
	}
	if r.Data != nil {
		return r.Data.ID
	}
	return ""
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

// AnswerCall answers an incoming call identified by its call control id.
func (c *Client) AnswerCall(ctx context.Context, callControlID string) error {
	return c.do(ctx, http.MethodPost, "/calls/"+url.PathEscape(callControlID)+"/actions/answer", struct{}{}, nil)
}

// StartAIAssistant hands an answered call to a Telnyx AI assistant.
func (c *Client) StartAIAssistant(ctx context.Context, callControlID string, req StartAIAssistantRequest) error {
	return c.do(ctx, http.MethodPost, "/calls/"+url.PathEscape(callControlID)+"/actions/ai_assistant_start", req, nil)
}

func (c *Client) CreateAssistant(ctx context.Context, a Assistant) (*AssistantResponse, error) {
	var resp AssistantResponse
	if err := c.do(ctx, http.MethodPost, "/ai/assistants", a, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateAssistant(ctx context.Context, id string, a Assistant) (*AssistantResponse, error) {
	var resp AssistantResponse
	if err := c.do(ctx, http.MethodPost, "/ai/assistants/"+url.PathEscape(id), a, &resp); err != nil {
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
	req.Header.Set("Accept", "application/json")
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

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
