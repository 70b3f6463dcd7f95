// Package llm defines the core contracts for LLM provider clients.
//
// It provides the Client interface implemented by raw provider adapters
// and by the resilient wrapper, the immutable Request/Response model, the
// typed error taxonomy with retryability classification, and the
// fallback contract for degraded responses.
package llm
