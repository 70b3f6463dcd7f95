// Package providers holds shared helpers for HTTP provider adapters.
package providers

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/jonwraymond/llmguard/llm"
)

// KindFromStatus maps an HTTP status code to an error kind.
func KindFromStatus(status int) llm.Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return llm.KindRateLimit
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return llm.KindAuthError
	case status == http.StatusBadRequest:
		return llm.KindClientError
	case status == http.StatusRequestTimeout:
		return llm.KindTimeout
	case status >= 500:
		return llm.KindServerError
	default:
		return llm.KindClientError
	}
}

// ErrorFromStatus builds a typed error for a non-200 provider response.
// The body is truncated so log lines stay bounded.
func ErrorFromStatus(provider string, status int, body []byte) *llm.Error {
	return llm.NewError(KindFromStatus(status), provider,
		fmt.Sprintf("HTTP %d: %s", status, Truncate(string(body), 200)))
}

// Truncate bounds a string to at most max bytes plus an ellipsis marker.
// The cut is moved back to a rune boundary so multi-byte characters are
// never split.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
