// Package config loads and saves the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/faizmokh/sejak/internal/files"
)

const (
	defaultStorage  = "file"
	defaultTimezone = "Local"
	defaultRefresh  = 30 * time.Second
	defaultLogLevel = "INFO"
	defaultNotifier = "dbus"

	minRefresh = time.Second
)

// DefaultMessages are the reminder bodies a notification picks from.
var DefaultMessages = []string{
	"You're doing great, keep it going!",
	"Another day stronger 💥",
	"Look at that streak! You've come so far.",
	"Progress, not perfection. Keep moving forward.",
	"Every day counts, and today is another win.",
}

// Config is the top-level application configuration.
type Config struct {
	// Storage selects the key/value backend: "file" or "sqlite".
	Storage string `yaml:"storage"`

	// Timezone is an IANA name, or "Local" for the system zone. Elapsed time
	// and reminder triggers are computed in it.
	Timezone string `yaml:"timezone"`

	// Refresh is how often the TUI recomputes "time since" readouts.
	Refresh time.Duration `yaml:"refresh"`

	// LogLevel is one of TRACE, DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`

	// Notifier picks how reminders are delivered: "dbus", "log" or "none".
	Notifier string `yaml:"notifier"`

	// Messages overrides the motivational reminder bodies.
	Messages []string `yaml:"messages"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage:  defaultStorage,
		Timezone: defaultTimezone,
		Refresh:  defaultRefresh,
		LogLevel: defaultLogLevel,
		Notifier: defaultNotifier,
		Messages: append([]string(nil), DefaultMessages...),
	}
}

// Normalize fills in missing or unusable values with defaults so that
// partially-filled configs still behave.
func (c *Config) Normalize() {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case "file", "sqlite":
	default:
		c.Storage = defaultStorage
	}

	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = defaultTimezone
	}
	if c.Refresh < minRefresh {
		c.Refresh = defaultRefresh
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}

	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	switch c.Notifier {
	case "dbus", "log", "none":
	default:
		c.Notifier = defaultNotifier
	}

	messages := c.Messages[:0:0]
	for _, m := range c.Messages {
		if m = strings.TrimSpace(m); m != "" {
			messages = append(messages, m)
		}
	}
	if len(messages) == 0 {
		messages = append(messages, DefaultMessages...)
	}
	c.Messages = messages
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, defaultTimezone) {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the YAML file at path. On first run the file does not exist: a
// default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save normalizes cfg and writes it atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return files.WriteAtomic(path, data, 0o600)
}
