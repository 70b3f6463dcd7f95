// Package client provides the resilient wrapper around a provider
// client.
//
// The wrapper composes a response cache, a sliding window rate limiter,
// a bulkhead, a circuit breaker, and retry with exponential backoff into
// a single llm.Client. Calls flow through the guards in a fixed order
// (cache, rate limiter, bulkhead, circuit breaker, retry) and every
// rejection or terminal failure is converted into a degraded response by
// the fallback handler, so Send never surfaces an error to the caller.
package client
