package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the state folder under the user's home directory.
	DefaultDirName = ".sejak"

	// HomeEnv overrides the state folder.
	HomeEnv = "SEJAK_HOME"

	// ConfigEnv points at a config file outside the state folder.
	ConfigEnv = "SEJAK_CONFIG"
)

// ResolveBasePath returns $SEJAK_HOME when set, otherwise ~/.sejak.
func ResolveBasePath() (string, error) {
	if dir := lookup(HomeEnv); dir != "" {
		return ExpandPath(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ResolveConfigPath returns $SEJAK_CONFIG, or "" when callers should use the
// file inside the base directory.
func ResolveConfigPath() (string, error) {
	if path := lookup(ConfigEnv); path != "" {
		return ExpandPath(path)
	}
	return "", nil
}

// ExpandPath resolves a leading "~/" against the home directory. Other paths
// are only cleaned.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
