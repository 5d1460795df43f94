package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const fileExt = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// FileStore keeps one file per key inside a private directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("file store: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Get reads the value stored under key
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the value with owner-only permissions
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	// Write to a temp file first so a crash never leaves half a record
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the key's file
func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys lists the stored keys
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), fileExt))
	}
	return keys, nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
