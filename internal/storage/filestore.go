// Package storage implements the content-addressed attachment store.
// Bytes live under <root>/<hash>; identical content is stored once no
// matter how many events reference it.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventsync/eventsync/internal/filex"
)

// FileStore keeps attachment bytes addressed by their SHA-256 hex hash.
type FileStore struct {
	root string
}

// NewFileStore creates the store root if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Path returns where the given hash lives, whether or not it exists yet.
func (s *FileStore) Path(hash string) string {
	return filepath.Join(s.root, hash)
}

// Exists reports whether content for the hash is already stored.
func (s *FileStore) Exists(hash string) bool {
	_, err := os.Stat(s.Path(hash))
	return err == nil
}

// Put copies src into the store under hash and returns the stored path.
// Existing content is left alone, which makes re-imports cheap.
func (s *FileStore) Put(src, hash string) (string, error) {
	dst := s.Path(hash)
	if s.Exists(hash) {
		return dst, nil
	}
	if err := filex.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("storing %s: %w", hash, err)
	}
	return dst, nil
}
