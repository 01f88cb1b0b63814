package kv

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/faizmokh/sejak/internal/files"
)

const valuePermissions = 0o600

// FileStore keeps one JSON file per key inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore roots a FileStore at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put replaces the value under key via temp file and rename.
func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return files.WriteAtomic(s.path(key), value, valuePermissions)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op; FileStore holds no handles.
func (s *FileStore) Close() error {
	return nil
}
