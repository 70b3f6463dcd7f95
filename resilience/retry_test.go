package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", r.config.BaseDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Jitter {
		t.Error("Jitter = true, want false")
	}
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: time.Millisecond})

	attempts := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_FailFailSucceed(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	attempts := 0
	retryableErr := errors.New("transient")

	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return retryableErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_BackoffDoubles(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond})

	var mu sync.Mutex
	var delays []time.Duration
	r.config.OnRetry = func(attempt int, err error, delay time.Duration) {
		mu.Lock()
		delays = append(delays, delay)
		mu.Unlock()
	}

	persistent := errors.New("always fails")
	start := time.Now()
	_ = r.Execute(context.Background(), func(context.Context) error {
		return persistent
	})
	elapsed := time.Since(start)

	mu.Lock()
	defer mu.Unlock()
	if len(delays) != 2 {
		t.Fatalf("scheduled delays = %v, want 2 entries", delays)
	}
	if delays[0] != 20*time.Millisecond {
		t.Errorf("delays[0] = %v, want 20ms", delays[0])
	}
	if delays[1] != 40*time.Millisecond {
		t.Errorf("delays[1] = %v, want 40ms (doubled)", delays[1])
	}
	if elapsed < 60*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 60ms (delays actually waited)", elapsed)
	}
}

func TestRetry_NonRetryablePropagates(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		RetryIf:     func(err error) bool { return false },
	})

	attempts := 0
	terminal := errors.New("auth failed")

	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		return terminal
	})

	if !errors.Is(err, terminal) {
		t.Errorf("Execute() error = %v, want %v", err, terminal)
	}
	if errors.Is(err, ErrMaxRetriesExceeded) {
		t.Error("non-retryable error wrapped with ErrMaxRetriesExceeded")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	attempts := 0
	persistent := errors.New("still broken")

	err := r.Execute(context.Background(), func(context.Context) error {
		attempts++
		return persistent
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Errorf("Execute() error = %v, want ErrMaxRetriesExceeded in chain", err)
	}
	if !errors.Is(err, persistent) {
		t.Errorf("Execute() error = %v, want terminal cause in chain", err)
	}
}

func TestRetry_CancellationSuppressesAttempts(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	done := make(chan error, 1)
	go func() {
		done <- r.Execute(ctx, func(context.Context) error {
			attempts++
			return errors.New("transient")
		})
	}()

	// Cancel while the first backoff is pending.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Execute did not return after cancellation")
	}

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (further attempts suppressed)", attempts)
	}
}

func TestRetry_DelayCappedAtMax(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: 20 * time.Millisecond, MaxDelay: 30 * time.Millisecond})

	if d := r.delay(1); d != 20*time.Millisecond {
		t.Errorf("delay(1) = %v, want 20ms", d)
	}
	if d := r.delay(2); d != 30*time.Millisecond {
		t.Errorf("delay(2) = %v, want capped at 30ms", d)
	}
	if d := r.delay(30); d != 30*time.Millisecond {
		t.Errorf("delay(30) = %v, want capped at 30ms (overflow guarded)", d)
	}
}

func TestRetry_Jitter(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: 100 * time.Millisecond, Jitter: true})

	for i := 0; i < 20; i++ {
		d := r.delay(1)
		if d < 100*time.Millisecond || d > 125*time.Millisecond {
			t.Fatalf("delay(1) = %v, want within [100ms, 125ms]", d)
		}
	}
}
