package llm

import (
	"context"
	"time"
)

// Params holds per-call sampling parameters. Zero values defer to the
// provider's configured defaults.
type Params struct {
	// Model overrides the provider's default model when non-empty.
	Model string

	// MaxTokens limits the response length. 0 uses the provider default.
	MaxTokens int

	// Temperature controls sampling randomness (0.0 - 2.0).
	Temperature float64

	// SystemPrompt is prepended as a system message when non-empty.
	SystemPrompt string
}

// Response is the result of a completed LLM call. Immutable after
// construction; WithFromCache returns a re-tagged copy.
type Response struct {
	// Content is the generated text.
	Content string

	// Model is the model that produced the response.
	Model string

	// Provider identifies the provider that served the call.
	Provider string

	// Latency is the wall-clock duration of the call.
	Latency time.Duration

	// TokensUsed is the provider-reported token count, 0 if unknown.
	TokensUsed int

	// FromCache is true when the response was served from the cache.
	FromCache bool
}

// WithFromCache returns a copy of the response with the cache flag set.
func (r *Response) WithFromCache(fromCache bool) *Response {
	c := *r
	c.FromCache = fromCache
	return &c
}

// Client is the contract for LLM provider clients.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Send must honor cancellation/deadlines.
// - Errors: Send must return *Error with an accurate (Kind, Retryable)
//   pair on provider failures.
//
// Both raw provider adapters and the resilient wrapper implement Client,
// so wrappers can be nested or swapped without callers noticing.
type Client interface {
	// Send dispatches the prompt and returns the response.
	Send(ctx context.Context, prompt string, params Params) (*Response, error)

	// ProviderID returns the stable identifier of the provider.
	ProviderID() string

	// IsHealthy reports whether the client is currently usable.
	IsHealthy() bool
}

// Result carries the outcome of an asynchronous Send.
type Result struct {
	Response *Response
	Err      error
}

// SendAsync dispatches Send on its own goroutine and returns a channel
// that yields exactly one Result. The caller thread is never blocked.
func SendAsync(ctx context.Context, c Client, prompt string, params Params) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		resp, err := c.Send(ctx, prompt, params)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}
