package vapi

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

const DefaultBaseURL = "https://api.vapi.ai"

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
	return fmt.Sprintf("vapi: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Function struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type Model struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools"`
}

type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type Server struct {
	URL string `json:"url"`
}

type Assistant struct {
	Name               string `json:"name"`
	Model              Model  `json:"model"`
	Voice              Voice  `json:"voice"`
	FirstMessage       string `json:"firstMessage"`
	MaxDurationSeconds int    `json:"maxDurationSeconds"`
	EndCallMessage     string `json:"endCallMessage"`
	Server             Server `json:"server"`
}

type AssistantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
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

func (c *Client) CreateAssistant(ctx context.Context, a Assistant) (*AssistantResponse, error) {
	var resp AssistantResponse
	if err := c.do(ctx, http.MethodPost, "/assistant", a, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateAssistant(ctx context.Context, id string, a Assistant) (*AssistantResponse, error) {
	var resp AssistantResponse
	if err := c.do(ctx, http.MethodPatch, "/assistant/"+url.PathEscape(id), a, &resp); err != nil {
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
