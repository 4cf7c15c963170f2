// Package cache provides the content-addressed result cache for
// generation requests.
//
// It provides input normalization, deterministic FNV-1a key derivation,
// TTL policies, and a generic persistent store with recency-based
// eviction. Two logically identical requests always resolve to the same
// key regardless of input ordering, casing, or duplication.
package cache
