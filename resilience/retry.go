package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first re-attempt; each further
	// re-attempt doubles it (1s, 2s, 4s, ...).
	// Default: 1s
	BaseDelay time.Duration

	// MaxDelay caps the delay between attempts.
	// Default: 30s
	MaxDelay time.Duration

	// Jitter adds up to 25% randomness to delays. Off by default so the
	// backoff schedule is exact.
	Jitter bool

	// RetryIf determines if an error should trigger a re-attempt.
	// Default: all non-nil errors.
	RetryIf func(err error) bool

	// OnRetry is called before each re-attempt is scheduled.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry executes operations with bounded exponential backoff.
//
// Delays are waited on a timer select, so no goroutine sleeps while
// holding a lock, and context cancellation suppresses further attempts.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry executor.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs op, re-attempting retryable failures until success, a
// non-retryable failure, exhausted attempts, or context cancellation.
//
// On exhaustion the terminal error is returned wrapped with
// ErrMaxRetriesExceeded; non-retryable failures propagate unchanged.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

// delay computes the backoff before re-attempt number attempt+1.
func (r *Retry) delay(attempt int) time.Duration {
	delay := r.config.BaseDelay << (attempt - 1)
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter && delay > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
