// Package health reports the operational state of LLM providers.
//
// A Checker reports a Status of healthy, degraded, or unhealthy. The
// ProviderChecker derives its status from a resilient client's circuit
// breaker: a closed circuit is healthy, a half-open circuit probing for
// recovery is degraded, and an open circuit is unhealthy. An Aggregator
// combines checkers across providers, and HTTP handlers expose the
// aggregate for liveness and readiness probes.
package health
