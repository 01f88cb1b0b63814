package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != "file" || cfg.Notifier != "dbus" || cfg.Refresh != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Messages) != len(DefaultMessages) {
		t.Fatalf("Messages = %d entries, want %d", len(cfg.Messages), len(DefaultMessages))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.TrimLeft(`
storage: SQLite
refresh: 10ms
notifier: carrier-pigeon
messages:
  - "  "
  - Keep going
`, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != "sqlite" {
		t.Fatalf("Storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.Refresh != 30*time.Second {
		t.Fatalf("Refresh = %v, want default", cfg.Refresh)
	}
	if cfg.Notifier != "dbus" {
		t.Fatalf("Notifier = %q, want dbus", cfg.Notifier)
	}
	if cfg.Timezone != "Local" || cfg.LogLevel != "INFO" {
		t.Fatalf("Timezone/LogLevel = %q/%q", cfg.Timezone, cfg.LogLevel)
	}
	if len(cfg.Messages) != 1 || cfg.Messages[0] != "Keep going" {
		t.Fatalf("Messages = %q, want [Keep going]", cfg.Messages)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Refresh = time.Minute
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Timezone != "UTC" || got.Refresh != time.Minute {
		t.Fatalf("round trip = %+v", got)
	}

	loc, err := got.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "UTC" {
		t.Fatalf("Location = %v, want UTC", loc)
	}
}

func TestLocationRejectsUnknownZone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Mars/Olympus_Mons"
	if _, err := cfg.Location(); err == nil {
		t.Fatal("Location should fail for unknown zone")
	}
}
