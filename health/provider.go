package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/llmguard/client"
	"github.com/jonwraymond/llmguard/resilience"
)

// ProviderChecker reports a provider's health from its resilient
// client's circuit breaker.
type ProviderChecker struct {
	client *client.ResilientClient
}

var _ Checker = (*ProviderChecker)(nil)

// NewProviderChecker creates a checker for the given resilient client.
func NewProviderChecker(c *client.ResilientClient) *ProviderChecker {
	return &ProviderChecker{client: c}
}

// Name returns the provider id.
func (p *ProviderChecker) Name() string {
	return p.client.ProviderID()
}

// Check maps the breaker state to a health status: closed is healthy,
// half-open is degraded (recovery in progress), open is unhealthy.
func (p *ProviderChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("check cancelled", ctx.Err())
	default:
	}

	metrics := p.client.Metrics()
	breaker := metrics.Breaker

	details := map[string]any{
		"breaker_state":     breaker.State.String(),
		"window_calls":      breaker.CallCount,
		"window_failures":   breaker.FailureCount,
		"failure_rate":      breaker.FailureRate,
		"cache_hit_rate":    metrics.Cache.HitRate(),
		"bulkhead_active":   metrics.Bulkhead.Active,
		"bulkhead_rejected": metrics.Bulkhead.Rejected,
		"rate_in_window":    metrics.Limiter.InWindow,
	}

	switch breaker.State {
	case resilience.StateOpen:
		return Unhealthy(
			fmt.Sprintf("circuit open until %s", breaker.OpenUntil.Format("15:04:05")),
			resilience.ErrCircuitOpen,
		).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy(
			fmt.Sprintf("circuit closed, failure rate %.1f%%", breaker.FailureRate),
		).WithDetails(details)
	}
}
