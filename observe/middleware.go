package observe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/llmguard/llm"
)

// InstrumentedClient wraps an llm.Client with tracing, metrics, and logging.
type InstrumentedClient struct {
	next    llm.Client
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

var _ llm.Client = (*InstrumentedClient)(nil)

// Instrument wraps a client with the given telemetry primitives.
// Nil tracer, metrics, or logger default to no-op implementations.
func Instrument(next llm.Client, tracer Tracer, metrics Metrics, logger Logger) *InstrumentedClient {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &InstrumentedClient{
		next:    next,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.WithProvider(next.ProviderID()),
	}
}

// InstrumentFromObserver wraps a client using the observer's telemetry.
func InstrumentFromObserver(next llm.Client, obs Observer) (*InstrumentedClient, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return Instrument(next, NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Send dispatches the call through the wrapped client, recording a span,
// call metrics, and a structured log entry for the outcome.
func (c *InstrumentedClient) Send(ctx context.Context, prompt string, params llm.Params) (*llm.Response, error) {
	meta := CallMeta{
		Provider:  c.next.ProviderID(),
		Model:     params.Model,
		RequestID: uuid.NewString(),
	}

	ctx, span := c.tracer.StartSpan(ctx, meta)
	start := time.Now()

	resp, err := c.next.Send(ctx, prompt, params)
	duration := time.Since(start)

	c.tracer.EndSpan(span, err)
	c.metrics.RecordCall(ctx, meta, err, duration)

	if err != nil {
		c.logger.Warn(ctx, "llm call failed",
			Field{Key: "llm.request_id", Value: meta.RequestID},
			Field{Key: "llm.model", Value: params.Model},
			Field{Key: "duration_ms", Value: duration.Milliseconds()},
			Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	if resp.FromCache {
		c.metrics.RecordCacheHit(ctx, meta)
	}

	c.logger.Debug(ctx, "llm call completed",
		Field{Key: "llm.request_id", Value: meta.RequestID},
		Field{Key: "llm.model", Value: resp.Model},
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
		Field{Key: "from_cache", Value: resp.FromCache},
		Field{Key: "tokens_used", Value: resp.TokensUsed},
	)
	return resp, nil
}

// ProviderID returns the wrapped client's provider id.
func (c *InstrumentedClient) ProviderID() string {
	return c.next.ProviderID()
}

// IsHealthy reports the wrapped client's health.
func (c *InstrumentedClient) IsHealthy() bool {
	return c.next.IsHealthy()
}
