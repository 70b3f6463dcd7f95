// Package cache provides an in-memory response cache for LLM calls.
//
// It combines LRU eviction with a per-entry TTL, SHA-256-based key
// derivation from (provider, model, prompt), and hit/miss/eviction
// accounting.
package cache
