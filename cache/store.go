package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/genflow/storage"
)

// Entry is one cached generation result. Entries are never mutated in
// place: a re-generation writes a new entry under the same key.
type Entry[V any] struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"t"`
	Payload   V         `json:"payload"`
}

// Store is a TTL-bounded, size-capped key-value store for generation
// results. The in-memory map is the source of truth for the session;
// every mutation is flushed best-effort to the backing medium. A
// backend failure degrades the store to memory-only, never surfaces.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Get never errors; a stale or missing entry is a miss.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]
	policy  Policy
	keyer   Keyer
	backend storage.Backend
	ns      storage.Namespace

	now func() time.Time
}

// NewStore creates a store persisted under ns in backend. A nil backend
// gives a memory-only store. Zero policy fields take defaults.
func NewStore[V any](ns storage.Namespace, policy Policy, backend storage.Backend) *Store[V] {
	return &Store[V]{
		entries: make(map[string]Entry[V]),
		policy:  policy.withDefaults(),
		keyer:   FNVKeyer{},
		backend: backend,
		ns:      ns,
		now:     time.Now,
	}
}

// Load replaces the in-memory map with the persisted store, pruning
// expired and over-cap entries. Absent or corrupt data loads as an
// empty store.
func (s *Store[V]) Load() {
	if s.backend == nil {
		return
	}

	data, ok := s.backend.Load(s.ns.Key())
	if !ok {
		return
	}

	var loaded map[string]Entry[V]
	if err := json.Unmarshal(data, &loaded); err != nil || loaded == nil {
		return
	}

	s.mu.Lock()
	s.entries = loaded
	s.pruneLocked()
	s.mu.Unlock()
}

// Get returns the payload for (scope, inputs) if present and fresh.
// A stale entry is removed lazily and treated as a miss.
func (s *Store[V]) Get(scope string, inputs []string) (V, bool) {
	var zero V
	key := s.keyer.Key(scope, inputs)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return zero, false
	}

	if s.policy.Expired(entry.CreatedAt, s.now()) {
		delete(s.entries, key)
		s.flushLocked()
		return zero, false
	}

	return entry.Payload, true
}

// Set inserts or overwrites the entry for (scope, inputs), evicts the
// oldest entries past capacity, and persists the store.
func (s *Store[V]) Set(scope string, inputs []string, payload V) {
	key := s.keyer.Key(scope, inputs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry[V]{
		Key:       key,
		CreatedAt: s.now(),
		Payload:   payload,
	}
	s.pruneLocked()
	s.flushLocked()
}

// Remove drops the entry for (scope, inputs) and persists the store.
// Idempotent.
func (s *Store[V]) Remove(scope string, inputs []string) {
	key := s.keyer.Key(scope, inputs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.flushLocked()
}

// Len returns the number of entries currently held, stale or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Flush persists the store to the backing medium. Failures are
// swallowed: the in-memory copy stays authoritative for the session.
func (s *Store[V]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// pruneLocked drops expired entries, then evicts the oldest entries
// until the store fits MaxEntries. Caller holds s.mu.
func (s *Store[V]) pruneLocked() {
	now := s.now()
	for key, entry := range s.entries {
		if s.policy.Expired(entry.CreatedAt, now) {
			delete(s.entries, key)
		}
	}

	if len(s.entries) <= s.policy.MaxEntries {
		return
	}

	ordered := make([]Entry[V], 0, len(s.entries))
	for _, entry := range s.entries {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	for _, entry := range ordered[s.policy.MaxEntries:] {
		delete(s.entries, entry.Key)
	}
}

// flushLocked persists best-effort. Caller holds s.mu.
func (s *Store[V]) flushLocked() {
	if s.backend == nil {
		return
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return
	}
	_ = s.backend.Save(s.ns.Key(), data)
}
