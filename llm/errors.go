package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindRateLimit means the provider rejected the call for quota reasons.
	KindRateLimit Kind = iota
	// KindAuthError means the credentials were rejected.
	KindAuthError
	// KindClientError means the request was malformed.
	KindClientError
	// KindServerError means the provider failed internally.
	KindServerError
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindInvalidResponse means the provider returned an unparseable body.
	KindInvalidResponse
	// KindCircuitOpen means the circuit breaker rejected the call.
	KindCircuitOpen
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimit:
		return "rate_limit"
	case KindAuthError:
		return "auth_error"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	case KindTimeout:
		return "timeout"
	case KindInvalidResponse:
		return "invalid_response"
	case KindCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Retryable returns the fixed retryability of the kind.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimit, KindServerError, KindTimeout:
		return true
	default:
		return false
	}
}

// Error is a typed provider failure. Immutable after construction.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Provider is the originating provider id.
	Provider string

	// Message describes the failure.
	Message string

	// Retryable reports whether a retry may succeed.
	Retryable bool

	// Err is the underlying cause, if any.
	Err error
}

// NewError creates an Error with the kind's fixed retryability.
func NewError(kind Kind, provider, message string) *Error {
	return &Error{
		Kind:      kind,
		Provider:  provider,
		Message:   message,
		Retryable: kind.Retryable(),
	}
}

// WrapError creates an Error wrapping an underlying cause.
func WrapError(kind Kind, provider, message string, err error) *Error {
	e := NewError(kind, provider, message)
	e.Err = err
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s [%s]: %s: %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("llm: %s [%s]: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable classifies an arbitrary error for retry purposes.
//
// Typed errors carry their own flag. Network I/O failures and deadline
// expiry are retryable; everything else is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var le *Error
	if errors.As(err, &le) {
		return le.Retryable
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne)
}

// KindOf extracts the kind from an error chain.
// Returns (KindServerError, false) when no typed error is present.
func KindOf(err error) (Kind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return KindServerError, false
}
