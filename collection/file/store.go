// Package file persists collection snapshots as one JSON file per store
// key, for setups that do not want a database dependency.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a collection.Store writing one file per key under a directory.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the XDG-compliant cache directory for snapshots.
func DefaultDir() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "nexussync"), nil
}

// Get implements collection.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read snapshot %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements collection.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

// sanitize maps a store key to a safe filename.
func sanitize(key string) string {
	var b strings.Builder
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
