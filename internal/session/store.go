// Package session persists the single opaque credential the client holds.
// An absent or empty file means unauthenticated.
package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Load returns the persisted token, or "" when none is stored.
func (s *Store) Load() string {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func (s *Store) Save(token string) error {
	if err := afero.WriteFile(s.fs, s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}

func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token: %w", err)
	}

	return nil
}
