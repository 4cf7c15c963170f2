// Package orchestrate ties the result cache and the job client into a
// single resolve operation: check the cache, and on a miss submit a
// generation job, poll it to completion, and cache the decoded result.
//
// An Orchestrator is scoped to one request kind (one cache namespace,
// one input normalization). Concurrent duplicate resolves are rejected
// with ErrInFlight by default, or coalesced onto one job when a shared
// singleflight group is configured.
package orchestrate
