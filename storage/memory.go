package storage

import "sync"

// MemoryBackend is an in-process backend. It backs tests and the
// degraded mode entered when the durable medium is unavailable.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBackend creates an empty memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

// Load implements Backend.
func (b *MemoryBackend) Load(key string) ([]byte, bool) {
	b.mu.RLock()
	data, ok := b.blobs[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Save implements Backend.
func (b *MemoryBackend) Save(key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	b.mu.Lock()
	b.blobs[key] = stored
	b.mu.Unlock()
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	delete(b.blobs, key)
	b.mu.Unlock()
	return nil
}

// Ensure MemoryBackend implements Backend
var _ Backend = (*MemoryBackend)(nil)
