// Package kv is the flat key/value store the rest of sejak persists into.
// Every Put replaces the whole value atomically: a failed write leaves the
// previous value in place.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/faizmokh/sejak/internal/files"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid key")

// Store is implemented by every storage backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the backend named by kind, rooted in the manager's base path.
func Open(kind string, manager *files.Manager) (Store, error) {
	switch kind {
	case BackendFile, "":
		dir := manager.StoreDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		return NewFileStore(dir), nil
	case BackendSQLite:
		if _, err := manager.EnsureDir(); err != nil {
			return nil, err
		}
		return OpenSQLite(manager.DatabasePath())
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected file|sqlite)", kind)
	}
}
