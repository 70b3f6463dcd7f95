package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls are admitted and outcomes are sampled.
	StateClosed State = iota
	// StateOpen means all calls are rejected until the cool-down elapses.
	StateOpen
	// StateHalfOpen means a bounded number of probe calls are admitted.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// WindowSize is the sliding outcome window length.
	// Default: 10
	WindowSize int

	// FailureRateThreshold is the failure percentage (0-100) at or above
	// which a full window opens the circuit.
	// Default: 50
	FailureRateThreshold float64

	// OpenDuration is the cool-down before recovery is probed.
	// Default: 30 seconds
	OpenDuration time.Duration

	// HalfOpenProbes is the probe call budget in half-open state.
	// Default: 3
	HalfOpenProbes int

	// OnStateChange is called (under the breaker lock) on transitions.
	OnStateChange func(from, to State)
}

// CircuitBreaker is a sliding-window failure-rate circuit breaker.
//
// Outcomes of completed calls are recorded into a fixed-capacity ring
// buffer. Once the window has a full cycle of outcomes, a failure rate
// at or above the threshold opens the circuit. After the cool-down the
// next admission check moves to half-open, where a bounded number of
// probes decide between closing and reopening: any probe failure reopens
// immediately, while exhausting the probe budget with zero failures
// closes the circuit and resets the window.
//
// All state transitions happen under one exclusive section per breaker,
// so admission decisions and outcome recording never interleave
// inconsistently.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu        sync.Mutex
	state     State
	openUntil time.Time

	// ring buffer of outcomes; failures counts the true entries.
	window   []bool
	index    int
	count    int
	failures int

	halfOpenAttempts int
	halfOpenFailures int

	now func() time.Time
}

// NewCircuitBreaker creates a circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.WindowSize <= 0 {
		config.WindowSize = 10
	}
	if config.FailureRateThreshold <= 0 {
		config.FailureRateThreshold = 50
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = 30 * time.Second
	}
	if config.HalfOpenProbes <= 0 {
		config.HalfOpenProbes = 3
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		window: make([]bool, config.WindowSize),
		now:    time.Now,
	}
}

// Allow reports whether a call may be dispatched.
//
// An open circuit whose cool-down has elapsed transitions to half-open
// before deciding. In half-open state, admissions are counted against
// the probe budget; probes may run concurrently.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Before(cb.openUntil) {
			return false
		}
		cb.transitionLocked(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.halfOpenAttempts >= cb.config.HalfOpenProbes {
			return false
		}
		cb.halfOpenAttempts++
	}

	return true
}

// RecordSuccess records a successful call outcome.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.recordOutcomeLocked(false)

	if cb.state == StateHalfOpen &&
		cb.halfOpenAttempts >= cb.config.HalfOpenProbes &&
		cb.halfOpenFailures == 0 {
		cb.closeLocked()
	}
}

// RecordFailure records a failed call outcome.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.recordOutcomeLocked(true)

	if cb.state == StateHalfOpen {
		cb.halfOpenFailures++
		cb.openLocked()
		return
	}

	if cb.state == StateClosed && cb.count >= len(cb.window) {
		rate := float64(cb.failures) * 100 / float64(cb.count)
		if rate >= cb.config.FailureRateThreshold {
			cb.openLocked()
		}
	}
}

// State returns the current state without side effects.
// An elapsed cool-down is only acted on by the next Allow.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset manually transitions the breaker to closed and clears the
// outcome window. Intended for operational recovery.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.closeLocked()
}

// CircuitBreakerMetrics is a snapshot of breaker state.
type CircuitBreakerMetrics struct {
	State        State
	WindowSize   int
	CallCount    int
	FailureCount int

	// FailureRate is the failure percentage over the recorded window.
	FailureRate float64

	// OpenUntil is the cool-down deadline; zero unless the breaker has
	// been opened.
	OpenUntil time.Time
}

// Metrics returns a snapshot of the breaker state.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	var rate float64
	if cb.count > 0 {
		rate = float64(cb.failures) * 100 / float64(cb.count)
	}

	return CircuitBreakerMetrics{
		State:        cb.state,
		WindowSize:   len(cb.window),
		CallCount:    cb.count,
		FailureCount: cb.failures,
		FailureRate:  rate,
		OpenUntil:    cb.openUntil,
	}
}

func (cb *CircuitBreaker) recordOutcomeLocked(failure bool) {
	if cb.count < len(cb.window) {
		cb.count++
	} else if cb.window[cb.index] {
		cb.failures--
	}

	cb.window[cb.index] = failure
	if failure {
		cb.failures++
	}
	cb.index = (cb.index + 1) % len(cb.window)
}

func (cb *CircuitBreaker) openLocked() {
	cb.openUntil = cb.now().Add(cb.config.OpenDuration)
	cb.halfOpenAttempts = 0
	cb.halfOpenFailures = 0
	cb.transitionLocked(StateOpen)
}

func (cb *CircuitBreaker) closeLocked() {
	cb.index = 0
	cb.count = 0
	cb.failures = 0
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.halfOpenAttempts = 0
	cb.halfOpenFailures = 0
	cb.transitionLocked(StateClosed)
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if to == StateHalfOpen {
		cb.halfOpenAttempts = 0
		cb.halfOpenFailures = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
