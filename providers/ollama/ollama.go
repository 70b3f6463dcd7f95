// Package ollama provides a client for Ollama's native chat endpoint.
//
// Ollama serves self-hosted inference for models like llama3.1 and
// mistral. Authentication is optional and only needed when the server
// sits behind an authenticating reverse proxy.
package ollama

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
const ProviderID = "ollama"

// Config configures the Ollama client.
type Config struct {
	// BaseURL is the server base URL, e.g. "http://127.0.0.1:11434".
	// Required.
	BaseURL string

	// Model is the default model. Default: llama3.1:8b
	Model string

	// MaxTokens is the default response length bound (num_predict).
	// Default: 2048
	MaxTokens int

	// Temperature is the default sampling temperature.
	// Default: 0.7
	Temperature float64

	// Timeout bounds a single request. Default: 60s
	Timeout time.Duration

	// Credential is applied to each request when set.
	Credential auth.Credential

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is an Ollama chat client.
type Client struct {
	config Config
	http   *http.Client
}

var _ llm.Client = (*Client)(nil)

// New creates an Ollama client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("ollama: base URL is required")
	}

	// Apply defaults
	if config.Model == "" {
		config.Model = "llama3.1:8b"
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
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
	Messages []chatMessage `json:"messages"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatResponse struct {
	Message   *chatMessage `json:"message"`
	EvalCount int          `json:"eval_count"`
}

// Send dispatches a chat completion to /api/chat.
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
		Model:   model,
		Stream:  false,
		Options: chatOptions{Temperature: temperature, NumPredict: maxTokens},
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
		c.config.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, llm.WrapError(llm.KindClientError, ProviderID, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.config.Credential != nil {
		if err := c.config.Credential.Apply(req); err != nil {
			return nil, llm.WrapError(llm.KindAuthError, ProviderID, "applying credential", err)
		}
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
	if parsed.Message == nil {
		return nil, llm.NewError(llm.KindInvalidResponse, ProviderID, "response missing message field")
	}

	return &llm.Response{
		Content:    parsed.Message.Content,
		Model:      model,
		Provider:   ProviderID,
		Latency:    latency,
		TokensUsed: parsed.EvalCount,
	}, nil
}

// ProviderID returns the provider identifier.
func (c *Client) ProviderID() string {
	return ProviderID
}

// IsHealthy reports whether the server answers /api/tags.
func (c *Client) IsHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
