package kv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/faizmokh/sejak/internal/files"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		BackendFile:   NewFileStore(filepath.Join(t.TempDir(), "store")),
		BackendSQLite: sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "Events"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
			}

			if err := store.Put(ctx, "Events", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := store.Put(ctx, "Events", []byte(`[]`)); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}

			got, err := store.Get(ctx, "Events")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !bytes.Equal(got, []byte(`[]`)) {
				t.Fatalf("Get = %q, want %q", got, `[]`)
			}

			if err := store.Delete(ctx, "Events"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Delete(ctx, "Events"); err != nil {
				t.Fatalf("Delete absent key: %v", err)
			}
			if _, err := store.Get(ctx, "Events"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
				if err := store.Put(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Put(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	mgr, err := files.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	fileStore, err := Open(BackendFile, mgr)
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := fileStore.(*FileStore); !ok {
		t.Fatalf("Open(file) = %T, want *FileStore", fileStore)
	}
	if err := fileStore.Put(context.Background(), "Events", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mgr.StoreDir(), "Events.json")); err != nil {
		t.Fatalf("file store did not write under StoreDir: %v", err)
	}

	sqliteStore, err := Open(BackendSQLite, mgr)
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	defer sqliteStore.Close()
	if _, ok := sqliteStore.(*SQLiteStore); !ok {
		t.Fatalf("Open(sqlite) = %T, want *SQLiteStore", sqliteStore)
	}

	if _, err := Open("redis", mgr); err == nil {
		t.Fatal("Open(redis) should fail")
	}
}
