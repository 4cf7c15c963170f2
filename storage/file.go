package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// FileBackend stores each key as one JSON-ish blob file under a root
// directory. Writes go to a temp file first and are renamed into place,
// so a crashed write never leaves a truncated store behind.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir, creating it if
// needed. An empty dir defaults to ~/.genflow.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		usr, err := user.Current()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(usr.HomeDir, ".genflow")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileBackend{dir: dir}, nil
}

// Load implements Backend. Any read failure is treated as a miss.
func (b *FileBackend) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(b.path(key))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// Save implements Backend using a temp-file-and-rename write.
func (b *FileBackend) Save(key string, data []byte) error {
	path := b.path(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// Delete implements Backend. Removing an absent key is not an error.
func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, sanitizeFilename(key)+".json")
}

// sanitizeFilename makes a storage key safe for use as a file name.
// Very long keys collapse to a hash to stay under filesystem limits.
func sanitizeFilename(key string) string {
	if len(key) > 200 {
		sum := sha256.Sum256([]byte(key))
		return "k_" + hex.EncodeToString(sum[:8])
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	return replacer.Replace(key)
}

// Ensure FileBackend implements Backend
var _ Backend = (*FileBackend)(nil)
