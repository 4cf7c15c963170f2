package job

import (
	"strings"
	"sync"

	"github.com/jonwraymond/genflow/storage"
)

// ThreadStore retains the backend-assigned thread id for one logical
// conversation across page loads. Callers clear it when the user
// switches context (e.g. changes category) or starts a new
// conversation; the next submission then establishes a fresh thread.
//
// The in-memory value is authoritative; persistence is best-effort.
type ThreadStore struct {
	mu      sync.Mutex
	backend storage.Backend
	key     string
	id      string
	loaded  bool
}

// NewThreadStore creates a store persisted under ns. A nil backend
// keeps the thread id for the session only.
func NewThreadStore(backend storage.Backend, ns storage.Namespace) *ThreadStore {
	return &ThreadStore{backend: backend, key: ns.Key()}
}

// Get returns the retained thread id, or "" when none is established.
func (t *ThreadStore) Get() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		t.loaded = true
		if t.backend != nil {
			if data, ok := t.backend.Load(t.key); ok {
				t.id = strings.TrimSpace(string(data))
			}
		}
	}
	return t.id
}

// Set retains the thread id returned by a submission.
func (t *ThreadStore) Set(id string) {
	id = strings.TrimSpace(id)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.id = id
	t.loaded = true
	if t.backend != nil && id != "" {
		_ = t.backend.Save(t.key, []byte(id))
	}
}

// Clear forgets the thread. The next submission starts a new one.
func (t *ThreadStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.id = ""
	t.loaded = true
	if t.backend != nil {
		_ = t.backend.Delete(t.key)
	}
}
