package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	storeDirName   = "store"
	configFileName = "config.yaml"
	logFileName    = "sejak.log"
	dbFileName     = "sejak.db"
)

// Manager centralizes where sejak keeps its state on disk and how files are named.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.sejak (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory storing all state.
func (m *Manager) BasePath() string {
	return m.basePath
}

// StoreDir is the directory holding one file per key for the file-backed store.
func (m *Manager) StoreDir() string {
	return filepath.Join(m.basePath, storeDirName)
}

// ConfigPath resolves the default YAML configuration file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// LogPath resolves the log file. The terminal belongs to the TUI, so logs go here.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// DatabasePath resolves the SQLite database used by the sqlite storage backend.
func (m *Manager) DatabasePath() string {
	return filepath.Join(m.basePath, dbFileName)
}

// EnsureDir guarantees the directory tree under the base path exists.
func (m *Manager) EnsureDir(sub ...string) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}

	dir := filepath.Join(append([]string{m.basePath}, sub...)...)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}
	return dir, nil
}

// OpenLog opens the log file for appending, creating it when needed.
func (m *Manager) OpenLog() (*os.File, error) {
	if _, err := m.EnsureDir(); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(m.LogPath(), os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// WriteAtomic replaces path with data by writing a temp file in the same
// directory and renaming it over the target. Readers see either the old or
// the new content, never a partial write. An existing file keeps its mode.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".sejak-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := perm
	if mode == 0 {
		mode = filePermissions
	}
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
