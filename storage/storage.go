package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for storage operations.
var (
	ErrInvalidNamespace = errors.New("storage: namespace has empty segment")
	ErrSaveFailed       = errors.New("storage: save failed")
)

// Backend persists raw blobs under string keys.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Load never errors; absent, unreadable, or corrupt data is a
//   miss (nil, false). Save and Delete report failures so callers can
//   decide whether to degrade to memory-only operation.
type Backend interface {
	// Load retrieves the blob stored under key. Returns (nil, false) on miss.
	Load(key string) ([]byte, bool)

	// Save stores the blob under key, replacing any previous value.
	Save(key string, data []byte) error

	// Delete removes the blob under key. Idempotent - no error on miss.
	Delete(key string) error
}

// Namespace identifies one feature's store within the shared medium.
// The rendered key has the form app:feature:kind:version, e.g.
// "regai:monthlyInspection:checklistGen:v1". Bumping the version segment
// retires an incompatible schema without colliding with the old data.
type Namespace struct {
	App     string
	Feature string
	Kind    string
	Version string
}

// Key renders the namespace as a storage key.
func (n Namespace) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", n.App, n.Feature, n.Kind, n.Version)
}

// Validate checks that every segment is non-empty and separator-free.
func (n Namespace) Validate() error {
	for _, seg := range []string{n.App, n.Feature, n.Kind, n.Version} {
		if strings.TrimSpace(seg) == "" || strings.Contains(seg, ":") {
			return ErrInvalidNamespace
		}
	}
	return nil
}
