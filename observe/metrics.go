package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records LLM call measurements.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: recording must be best-effort and must not panic.
type Metrics interface {
	// RecordCall records a completed call with its outcome and duration.
	RecordCall(ctx context.Context, meta CallMeta, err error, duration time.Duration)

	// RecordCacheHit records a response served from the cache.
	RecordCacheHit(ctx context.Context, meta CallMeta)

	// RecordCacheMiss records a cache lookup that missed.
	RecordCacheMiss(ctx context.Context, meta CallMeta)

	// RecordBreakerTransition records a circuit breaker state change.
	RecordBreakerTransition(ctx context.Context, provider, from, to string)
}

type metricsImpl struct {
	callTotal    metric.Int64Counter
	callErrors   metric.Int64Counter
	callDuration metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	transitions  metric.Int64Counter
}

// NewMetrics creates Metrics backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &metricsImpl{}
	var err error

	m.callTotal, err = meter.Int64Counter("llm.call.total",
		metric.WithDescription("Total LLM calls attempted"),
	)
	if err != nil {
		return nil, err
	}

	m.callErrors, err = meter.Int64Counter("llm.call.errors",
		metric.WithDescription("LLM calls that resulted in an error"),
	)
	if err != nil {
		return nil, err
	}

	m.callDuration, err = meter.Float64Histogram("llm.call.duration_ms",
		metric.WithDescription("LLM call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.cacheHits, err = meter.Int64Counter("llm.cache.hits",
		metric.WithDescription("Responses served from the cache"),
	)
	if err != nil {
		return nil, err
	}

	m.cacheMisses, err = meter.Int64Counter("llm.cache.misses",
		metric.WithDescription("Cache lookups that missed"),
	)
	if err != nil {
		return nil, err
	}

	m.transitions, err = meter.Int64Counter("llm.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func callAttrs(meta CallMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", meta.Provider),
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("llm.model", meta.Model))
	}
	return attrs
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, err error, duration time.Duration) {
	attrs := callAttrs(meta)
	m.callTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.callErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.callDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context, meta CallMeta) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(callAttrs(meta)...))
}

func (m *metricsImpl) RecordCacheMiss(ctx context.Context, meta CallMeta) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(callAttrs(meta)...))
}

func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, provider, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// nopMetrics records nothing.
type nopMetrics struct{}

// NopMetrics returns Metrics that record nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordCall(context.Context, CallMeta, error, time.Duration) {}
func (nopMetrics) RecordCacheHit(context.Context, CallMeta)                   {}
func (nopMetrics) RecordCacheMiss(context.Context, CallMeta)                  {}
func (nopMetrics) RecordBreakerTransition(context.Context, string, string, string) {
}

var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = nopMetrics{}
)
