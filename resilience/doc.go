// Package resilience provides failure-control primitives for LLM calls.
//
// The package implements the admission and recovery mechanisms composed
// by the resilient client wrapper:
//
//   - Circuit Breaker: sliding-outcome-window state machine that stops
//     dispatching to a failing provider, then cautiously probes recovery.
//
//   - Retry: bounded exponential backoff for retryable failures, with
//     timer-based delays that never block while holding a lock or permit.
//
//   - Sliding Window Rate Limiter: exact timestamp-retention admission
//     control over a trailing interval.
//
//   - Bulkhead: fixed permit pool bounding concurrent in-flight calls to
//     one provider.
//
//   - Timeout: per-dispatch deadline wrapper for delegate calls.
//
// Each primitive owns its mutable state behind a per-instance exclusive
// section and exposes a snapshot Metrics method. Admission checks are
// non-blocking and O(window size) at worst.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    WindowSize:           10,
//	    FailureRateThreshold: 50.0,
//	    OpenDuration:         30 * time.Second,
//	})
//
//	rl := resilience.NewSlidingWindowLimiter(resilience.SlidingWindowConfig{
//	    Limit: 10, // per minute
//	})
//
//	if rl.TryAcquire() && cb.Allow() {
//	    err := doCall()
//	    if err != nil {
//	        cb.RecordFailure()
//	    } else {
//	        cb.RecordSuccess()
//	    }
//	}
package resilience
