// Package observe provides observability primitives for generation
// request flows.
//
// It is a pure instrumentation library: no execution, no transport, no
// I/O beyond exporter setup. Consumers wire the observer into the
// orchestrator or their own plumbing.
package observe
