// Package storage provides the durable key-value medium behind the
// result caches, draft stores, and thread continuity state.
//
// It provides a Backend interface with file and memory implementations,
// plus namespaced key construction so incompatible schema versions
// coexist without collision.
package storage
