// Package observe provides observability primitives for LLM calls.
//
// It is a pure instrumentation library: no dispatch, no transport, no
// I/O beyond exporter setup. Consumers wire the observer into the
// resilient client wrapper or their own middleware.
package observe
