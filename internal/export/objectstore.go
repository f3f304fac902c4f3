package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore is a write-once-per-key object target for exported chunks
type ObjectStore interface {
	Exists(key string) (bool, error)
	Put(key string, body []byte) error
}

// FSObjectStore writes objects under a root directory, one file per key
type FSObjectStore struct {
	root string
}

// NewFSObjectStore creates a filesystem object store rooted at root
func NewFSObjectStore(root string) *FSObjectStore {
	return &FSObjectStore{root: root}
}

// objectPath resolves a key below the root. Keys come from record fields
// that originate in inbound webhooks; a key whose cleaned path would land
// outside the root is rejected rather than resolved.
func (s *FSObjectStore) objectPath(key string) (string, error) {
	root := filepath.Clean(s.root)
	path := filepath.Join(root, filepath.FromSlash(key))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes the export root", key)
	}
	return path, nil
}

// Exists reports whether an object is already present at key
func (s *FSObjectStore) Exists(key string) (bool, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat object %s: %w", key, err)
}

// Put writes the object, failing if it already exists
func (s *FSObjectStore) Put(key string, body []byte) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create object %s: %w", key, err)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}
