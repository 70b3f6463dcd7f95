package resilience

import (
	"context"
	"errors"
	"time"
)

// WithTimeout runs op under a deadline, translating expiry into
// ErrTimeout. Used for delegate-level dispatch deadlines; the caller's
// retry layer treats ErrTimeout as retryable.
func WithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := op(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
