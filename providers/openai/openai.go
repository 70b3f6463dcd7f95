// Package openai provides a client for OpenAI-compatible chat
// completion endpoints.
//
// The adapter speaks the /v1/chat/completions wire format, so it also
// works against compatible gateways (vLLM, LiteLLM, Azure-style
// proxies) by pointing BaseURL at them.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/llmguard/auth"
	"github.com/jonwraymond/llmguard/llm"
	"github.com/jonwraymond/llmguard/providers"
)

// ProviderID is the stable identifier of this provider.
const ProviderID = "openai"

// Config configures the OpenAI client.
type Config struct {
	// BaseURL is the API base URL. Default: https://api.openai.com
	BaseURL string

	// Model is the default model. Default: gpt-4o-mini
	Model string

	// MaxTokens is the default response length bound. Default: 2048
	MaxTokens int

	// Temperature is the default sampling temperature. Default: 0.7
	Temperature float64

	// Timeout bounds a single request. Default: 60s
	Timeout time.Duration

	// Credential authenticates each request. Required.
	Credential auth.Credential

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is an OpenAI chat completion client.
type Client struct {
	config Config
	http   *http.Client
}

var _ llm.Client = (*Client)(nil)

// New creates an OpenAI client.
func New(config Config) (*Client, error) {
	if config.Credential == nil {
		return nil, fmt.Errorf("openai: credential is required")
	}

	// Apply defaults
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 2048
	}
	if config.Temperature <= 0 {
		config.Temperature = 0.7
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{config: config, http: httpClient}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Send dispatches a chat completion to /v1/chat/completions.
func (c *Client) Send(ctx context.Context, prompt string, params llm.Params) (*llm.Response, error) {
	model := params.Model
	if model == "" {
		model = c.config.Model
	}
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}
	temperature := params.Temperature
	if temperature <= 0 {
		temperature = c.config.Temperature
	}

	body := chatRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if params.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: params.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, llm.WrapError(llm.KindClientError, ProviderID, "encoding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, llm.WrapError(llm.KindClientError, ProviderID, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.config.Credential.Apply(req); err != nil {
		return nil, llm.WrapError(llm.KindAuthError, ProviderID, "applying credential", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.WrapError(llm.KindTimeout, ProviderID, "request aborted", err)
		}
		return nil, llm.WrapError(llm.KindServerError, ProviderID, "executing request", err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.WrapError(llm.KindInvalidResponse, ProviderID, "reading response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providers.ErrorFromStatus(ProviderID, resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, llm.WrapError(llm.KindInvalidResponse, ProviderID,
			"decoding response: "+providers.Truncate(string(raw), 200), err)
	}
	if len(parsed.Choices) == 0 {
		return nil, llm.NewError(llm.KindInvalidResponse, ProviderID, "response has no choices")
	}

	return &llm.Response{
		Content:    parsed.Choices[0].Message.Content,
		Model:      model,
		Provider:   ProviderID,
		Latency:    latency,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}

// ProviderID returns the provider identifier.
func (c *Client) ProviderID() string {
	return ProviderID
}

// IsHealthy reports whether the client is usable.
// Hosted endpoints have no cheap unauthenticated probe, so a
// constructed client is assumed healthy.
func (c *Client) IsHealthy() bool {
	return true
}
