package client

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/llmguard/cache"
	"github.com/jonwraymond/llmguard/llm"
	"github.com/jonwraymond/llmguard/observe"
	"github.com/jonwraymond/llmguard/resilience"
)

// DefaultModel is the model key used for caching when a call does not
// name one.
const DefaultModel = "default"

// Config configures the resilient client.
type Config struct {
	// CacheMaxSize is the maximum number of cached responses.
	// Default: 500
	CacheMaxSize int

	// CacheTTL is the time-to-live of a cached response.
	// Default: 5 minutes
	CacheTTL time.Duration

	// RateLimitPerMinute is the admissions allowed per trailing minute.
	// Default: 10
	RateLimitPerMinute int

	// BulkheadMaxConcurrent bounds in-flight calls to the provider.
	// Default: 5
	BulkheadMaxConcurrent int

	// BreakerWindowSize is the breaker's outcome window length.
	// Default: 10
	BreakerWindowSize int

	// BreakerFailureRateThreshold is the failure percentage (0-100) at
	// or above which a full window opens the circuit.
	// Default: 50
	BreakerFailureRateThreshold float64

	// BreakerOpenDuration is the cool-down before recovery is probed.
	// Default: 30 seconds
	BreakerOpenDuration time.Duration

	// BreakerHalfOpenProbes is the probe budget in half-open state.
	// Default: 3
	BreakerHalfOpenProbes int

	// RetryMaxAttempts is the maximum attempts per call (including the
	// initial one).
	// Default: 3
	RetryMaxAttempts int

	// RetryBaseDelay is the delay before the first re-attempt; each
	// further re-attempt doubles it.
	// Default: 1s
	RetryBaseDelay time.Duration

	// CallTimeout bounds a single attempt. 0 disables the bound.
	CallTimeout time.Duration

	// Fallback produces degraded responses. Default: StaticFallback.
	Fallback llm.FallbackHandler

	// Logger receives structured call logs. Default: discard.
	Logger observe.Logger

	// Metrics receives call measurements. Default: discard.
	Metrics observe.Metrics
}

// ResilientClient decorates a provider client with the full guard
// chain. It implements llm.Client, so it can stand anywhere a raw
// provider client does.
type ResilientClient struct {
	delegate llm.Client
	cache    *cache.Cache
	limiter  *resilience.SlidingWindowLimiter
	bulkhead *resilience.Bulkhead
	breaker  *resilience.CircuitBreaker
	retry    *resilience.Retry
	fallback llm.FallbackHandler
	logger   observe.Logger
	metrics  observe.Metrics
	timeout  time.Duration
}

var _ llm.Client = (*ResilientClient)(nil)

// New creates a resilient client around the given provider client.
func New(delegate llm.Client, config Config) *ResilientClient {
	// Apply defaults
	if config.Fallback == nil {
		config.Fallback = &llm.StaticFallback{}
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}

	c := &ResilientClient{
		delegate: delegate,
		cache: cache.New(cache.Config{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
		limiter: resilience.NewSlidingWindowLimiter(resilience.SlidingWindowConfig{
			Limit:  config.RateLimitPerMinute,
			Window: time.Minute,
		}),
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: config.BulkheadMaxConcurrent,
		}),
		retry: resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: config.RetryMaxAttempts,
			BaseDelay:   config.RetryBaseDelay,
			RetryIf:     llm.IsRetryable,
		}),
		fallback: config.Fallback,
		logger:   config.Logger.WithProvider(delegate.ProviderID()),
		metrics:  config.Metrics,
		timeout:  config.CallTimeout,
	}

	c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		WindowSize:           config.BreakerWindowSize,
		FailureRateThreshold: config.BreakerFailureRateThreshold,
		OpenDuration:         config.BreakerOpenDuration,
		HalfOpenProbes:       config.BreakerHalfOpenProbes,
		OnStateChange:        c.onBreakerTransition,
	})

	return c
}

// Send dispatches the prompt through the guard chain.
//
// Guards run in a fixed order: cache lookup, rate limiter, bulkhead,
// circuit breaker, then the retried provider call. Every rejection and
// every terminal provider failure is converted into a degraded response
// by the fallback handler, so the returned error is always nil.
func (c *ResilientClient) Send(ctx context.Context, prompt string, params llm.Params) (*llm.Response, error) {
	provider := c.delegate.ProviderID()
	model := params.Model
	if model == "" {
		model = DefaultModel
	}
	meta := observe.CallMeta{Provider: provider, Model: model, RequestID: uuid.NewString()}

	if resp, ok := c.cache.Get(prompt, model, provider); ok {
		c.metrics.RecordCacheHit(ctx, meta)
		c.logger.Debug(ctx, "cache hit",
			observe.Field{Key: "llm.request_id", Value: meta.RequestID},
			observe.Field{Key: "llm.model", Value: model},
		)
		return resp, nil
	}
	c.metrics.RecordCacheMiss(ctx, meta)

	if !c.limiter.TryAcquire() {
		err := llm.WrapError(llm.KindRateLimit, provider,
			"rate limit exceeded", resilience.ErrRateLimitExceeded)
		return c.degrade(ctx, meta, prompt, err), nil
	}

	if !c.bulkhead.TryAcquire() {
		err := llm.WrapError(llm.KindServerError, provider,
			"bulkhead at capacity", resilience.ErrBulkheadFull)
		return c.degrade(ctx, meta, prompt, err), nil
	}
	defer c.bulkhead.Release()

	if !c.breaker.Allow() {
		err := llm.WrapError(llm.KindCircuitOpen, provider,
			"circuit breaker is open", resilience.ErrCircuitOpen)
		return c.degrade(ctx, meta, prompt, err), nil
	}

	start := time.Now()
	resp, err := c.dispatch(ctx, prompt, params)
	duration := time.Since(start)
	c.metrics.RecordCall(ctx, meta, err, duration)

	if err != nil {
		c.breaker.RecordFailure()
		return c.degrade(ctx, meta, prompt, err), nil
	}

	c.breaker.RecordSuccess()
	c.cache.Put(prompt, model, provider, resp)
	c.logger.Debug(ctx, "call completed",
		observe.Field{Key: "llm.request_id", Value: meta.RequestID},
		observe.Field{Key: "llm.model", Value: resp.Model},
		observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		observe.Field{Key: "tokens_used", Value: resp.TokensUsed},
	)
	return resp, nil
}

// dispatch runs the provider call under retry, with an optional
// per-attempt timeout.
func (c *ResilientClient) dispatch(ctx context.Context, prompt string, params llm.Params) (*llm.Response, error) {
	var resp *llm.Response

	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		attempt := func(ctx context.Context) error {
			r, err := c.delegate.Send(ctx, prompt, params)
			if err != nil {
				return err
			}
			resp = r
			return nil
		}
		if c.timeout > 0 {
			err := resilience.WithTimeout(ctx, c.timeout, attempt)
			if errors.Is(err, resilience.ErrTimeout) {
				return llm.WrapError(llm.KindTimeout, c.delegate.ProviderID(),
					"attempt deadline exceeded", err)
			}
			return err
		}
		return attempt(ctx)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// degrade converts a failure into a fallback response and logs it.
func (c *ResilientClient) degrade(ctx context.Context, meta observe.CallMeta, prompt string, cause error) *llm.Response {
	kind, _ := llm.KindOf(cause)
	c.logger.Warn(ctx, "degraded to fallback",
		observe.Field{Key: "llm.request_id", Value: meta.RequestID},
		observe.Field{Key: "llm.model", Value: meta.Model},
		observe.Field{Key: "error_kind", Value: kind.String()},
		observe.Field{Key: "error", Value: cause.Error()},
	)
	return c.fallback.GenerateFallback(prompt, cause)
}

func (c *ResilientClient) onBreakerTransition(from, to resilience.State) {
	ctx := context.Background()
	c.metrics.RecordBreakerTransition(ctx, c.delegate.ProviderID(), from.String(), to.String())
	c.logger.Warn(ctx, "circuit breaker state changed",
		observe.Field{Key: "from", Value: from.String()},
		observe.Field{Key: "to", Value: to.String()},
	)
}

// ProviderID returns the wrapped provider's id.
func (c *ResilientClient) ProviderID() string {
	return c.delegate.ProviderID()
}

// IsHealthy reports whether the wrapped provider is currently usable.
// An open circuit means unhealthy regardless of the delegate.
func (c *ResilientClient) IsHealthy() bool {
	if c.breaker.State() == resilience.StateOpen {
		return false
	}
	return c.delegate.IsHealthy()
}

// ResetCircuitBreaker manually closes the circuit breaker.
// Intended for operational recovery.
func (c *ResilientClient) ResetCircuitBreaker() {
	c.breaker.Reset()
}

// BreakerState returns the current circuit breaker state.
func (c *ResilientClient) BreakerState() resilience.State {
	return c.breaker.State()
}

// Metrics is a combined snapshot of all guard state.
type Metrics struct {
	Cache    cache.Stats
	Limiter  resilience.SlidingWindowMetrics
	Bulkhead resilience.BulkheadMetrics
	Breaker  resilience.CircuitBreakerMetrics
}

// Metrics returns a snapshot of the guard chain state.
func (c *ResilientClient) Metrics() Metrics {
	return Metrics{
		Cache:    c.cache.Stats(),
		Limiter:  c.limiter.Metrics(),
		Bulkhead: c.bulkhead.Metrics(),
		Breaker:  c.breaker.Metrics(),
	}
}
