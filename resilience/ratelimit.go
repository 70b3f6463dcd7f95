package resilience

import (
	"sync"
	"time"
)

// SlidingWindowConfig configures the sliding window rate limiter.
type SlidingWindowConfig struct {
	// Limit is the number of admissions allowed per window.
	// Default: 10
	Limit int

	// Window is the trailing interval admissions are counted over.
	// Default: 1 minute
	Window time.Duration
}

// SlidingWindowLimiter is an exact sliding-window rate limiter.
//
// Admission timestamps are retained for the trailing window and purged
// lazily on each check, so behavior over the interval is exact rather
// than approximate. There is no token pre-allocation and no refill
// timer.
type SlidingWindowLimiter struct {
	config SlidingWindowConfig

	mu         sync.Mutex
	admissions []time.Time

	now func() time.Time
}

// NewSlidingWindowLimiter creates a sliding window rate limiter.
func NewSlidingWindowLimiter(config SlidingWindowConfig) *SlidingWindowLimiter {
	// Apply defaults
	if config.Limit <= 0 {
		config.Limit = 10
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &SlidingWindowLimiter{
		config:     config,
		admissions: make([]time.Time, 0, config.Limit),
		now:        time.Now,
	}
}

// TryAcquire attempts a non-blocking admission.
//
// Timestamps older than the window are purged, then the current call is
// admitted if the remaining count is below the limit. The
// purge-check-admit sequence is atomic per call.
func (l *SlidingWindowLimiter) TryAcquire() bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.purgeLocked(now)

	if len(l.admissions) >= l.config.Limit {
		return false
	}

	l.admissions = append(l.admissions, now)
	return true
}

// SlidingWindowMetrics is a snapshot of limiter state.
type SlidingWindowMetrics struct {
	// Limit is the configured admissions per window.
	Limit int

	// InWindow is the number of admissions currently inside the window.
	InWindow int

	// ResetAt is when the oldest admission leaves the window.
	// Equal to the snapshot time when the window is empty.
	ResetAt time.Time
}

// Metrics returns a snapshot of the limiter state.
func (l *SlidingWindowLimiter) Metrics() SlidingWindowMetrics {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.purgeLocked(now)

	resetAt := now
	if len(l.admissions) > 0 {
		resetAt = l.admissions[0].Add(l.config.Window)
	}

	return SlidingWindowMetrics{
		Limit:    l.config.Limit,
		InWindow: len(l.admissions),
		ResetAt:  resetAt,
	}
}

func (l *SlidingWindowLimiter) purgeLocked(now time.Time) {
	cutoff := now.Add(-l.config.Window)

	i := 0
	for i < len(l.admissions) && l.admissions[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		l.admissions = append(l.admissions[:0], l.admissions[i:]...)
	}
}
