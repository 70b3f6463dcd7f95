package llm

import "strings"

// FallbackProvider is the provider id reported by degraded responses.
const FallbackProvider = "fallback"

// FallbackHandler produces a degraded response when the primary path is
// unavailable.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: GenerateFallback must always return a usable Response and
//   must never fail, whatever the cause looks like.
type FallbackHandler interface {
	// GenerateFallback returns a degraded response for the prompt.
	GenerateFallback(prompt string, cause error) *Response
}

// StaticFallback returns the same canned content for every prompt.
type StaticFallback struct {
	// Content is the canned response text.
	Content string
}

// GenerateFallback returns the canned response.
func (f *StaticFallback) GenerateFallback(_ string, _ error) *Response {
	content := f.Content
	if content == "" {
		content = "The service is temporarily unavailable. Please try again later."
	}
	return &Response{
		Content:  content,
		Provider: FallbackProvider,
	}
}

// FallbackRule maps a prompt substring to a canned response.
type FallbackRule struct {
	// Contains is matched case-insensitively against the prompt.
	Contains string

	// Content is returned when the rule matches.
	Content string
}

// RuleFallback picks a canned response by prompt pattern, falling back
// to a default when no rule matches.
type RuleFallback struct {
	// Rules are evaluated in order; the first match wins.
	Rules []FallbackRule

	// Default is returned when no rule matches.
	Default string
}

// GenerateFallback returns the first matching rule's response.
func (f *RuleFallback) GenerateFallback(prompt string, _ error) *Response {
	lower := strings.ToLower(prompt)
	for _, rule := range f.Rules {
		if rule.Contains != "" && strings.Contains(lower, strings.ToLower(rule.Contains)) {
			return &Response{Content: rule.Content, Provider: FallbackProvider}
		}
	}
	content := f.Default
	if content == "" {
		content = "The service is temporarily unavailable. Please try again later."
	}
	return &Response{Content: content, Provider: FallbackProvider}
}

// Ensure implementations satisfy FallbackHandler
var (
	_ FallbackHandler = (*StaticFallback)(nil)
	_ FallbackHandler = (*RuleFallback)(nil)
)
