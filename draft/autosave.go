package draft

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay is the settle window between an edit and its
// persisted save.
const DefaultAutosaveDelay = 250 * time.Millisecond

// Autosaver debounces saves for one draft: every Update resets the
// settle window, so a burst of keystrokes lands as a single write.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Lifecycle: call Flush before teardown to persist the last pending
//   value, or Stop to drop it.
type Autosaver[T any] struct {
	mu    sync.Mutex
	store *Store[T]
	id    string
	delay time.Duration

	timer   *time.Timer
	pending T
	dirty   bool
}

// NewAutosaver creates an autosaver writing to store under id. A zero
// delay takes DefaultAutosaveDelay.
func NewAutosaver[T any](store *Store[T], id string, delay time.Duration) *Autosaver[T] {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver[T]{store: store, id: id, delay: delay}
}

// Update records the latest draft value and schedules a save once edits
// settle.
func (a *Autosaver[T]) Update(value T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = value
	a.dirty = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.save)
}

// Flush persists the pending value immediately, if any.
func (a *Autosaver[T]) Flush() {
	a.save()
}

// Stop drops the pending value without saving it.
func (a *Autosaver[T]) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.dirty = false
}

func (a *Autosaver[T]) save() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	value := a.pending
	a.dirty = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	a.store.Save(a.id, value)
}
