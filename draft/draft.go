package draft

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonwraymond/genflow/storage"
)

// Retention defaults. Selections live much longer than draft text: the
// set of items a user picked stays useful across many sessions.
const (
	DefaultDraftTTL     = 30 * 24 * time.Hour
	DefaultSelectionTTL = 180 * 24 * time.Hour
)

// record wraps a stored value with its save time for TTL checks.
type record[T any] struct {
	SavedAt time.Time `json:"t"`
	Value   T         `json:"value"`
}

// Store persists drafts of type T under a storage namespace. Each draft
// is addressed by a caller-chosen id (a category, a document, a form)
// and stored as its own key, so one corrupt draft cannot take down the
// rest.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: storage failures degrade silently; Load treats a corrupt
//   or stale draft as absent and removes it.
type Store[T any] struct {
	mu      sync.Mutex
	backend storage.Backend
	ns      storage.Namespace
	ttl     time.Duration

	now func() time.Time
}

// NewStore creates a draft store persisted under ns. A zero ttl takes
// DefaultDraftTTL.
func NewStore[T any](ns storage.Namespace, ttl time.Duration, backend storage.Backend) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Store[T]{
		backend: backend,
		ns:      ns,
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewSelectionStore creates a store for persisted user selections
// (picked tags, chosen checklist items) with the long selection TTL.
func NewSelectionStore(ns storage.Namespace, backend storage.Backend) *Store[[]string] {
	return NewStore[[]string](ns, DefaultSelectionTTL, backend)
}

func (s *Store[T]) key(id string) string {
	return s.ns.Key() + ":" + id
}

// Load returns the draft saved under id, if present and fresh. A draft
// past TTL is removed and treated as absent.
func (s *Store[T]) Load(id string) (T, bool) {
	var zero T
	if s.backend == nil {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.backend.Load(s.key(id))
	if !ok {
		return zero, false
	}

	var rec record[T]
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = s.backend.Delete(s.key(id))
		return zero, false
	}

	if s.now().Sub(rec.SavedAt) > s.ttl {
		_ = s.backend.Delete(s.key(id))
		return zero, false
	}

	return rec.Value, true
}

// Save persists value under id, stamping the save time.
func (s *Store[T]) Save(id string, value T) {
	if s.backend == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record[T]{SavedAt: s.now(), Value: value})
	if err != nil {
		return
	}
	_ = s.backend.Save(s.key(id), data)
}

// Discard removes the draft under id. Idempotent.
func (s *Store[T]) Discard(id string) {
	if s.backend == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.backend.Delete(s.key(id))
}
