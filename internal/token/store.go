// Package token persists the ByteBoard credential token across runs. The
// token is an opaque bearer string; exactly one is stored at a time and its
// absence means "logged out".
package token

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds at most one credential token.
type Store interface {
	// Load returns the stored token, or ok=false when none is stored.
	Load() (token string, ok bool)
	// Save replaces any stored token with the given one.
	Save(token string) error
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// FileStore keeps the token in a single file, created with 0600 permissions.
type FileStore struct {
	path string
}

// DefaultPath returns the token file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "byteboard", "token"), nil
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, bool) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", false
	}
	return tok, true
}

func (s *FileStore) Save(tok string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(tok+"\n"), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu  sync.Mutex
	tok string
	set bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, s.set
}

func (s *MemStore) Save(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok, s.set = tok, true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok, s.set = "", false
	return nil
}
