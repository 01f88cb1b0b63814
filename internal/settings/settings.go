// Package settings holds the user-facing toggles persisted next to the events:
// whether reminders are enabled and whether the welcome screen was shown.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/faizmokh/sejak/internal/kv"
)

// Storage keys.
const (
	NotificationsKey = "notificationsEnabled"
	OnboardingKey    = "EventBoarding"
)

// Snapshot is the settings state at one point in time.
type Snapshot struct {
	NotificationsEnabled bool
	OnboardingShown      bool
}

// Store reads and writes settings through a kv.Store.
type Store struct {
	kv kv.Store
}

// NewStore wires settings on top of the shared key/value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// NotificationsEnabled reports the global reminder toggle. An unset value means enabled.
func (s *Store) NotificationsEnabled(ctx context.Context) (bool, error) {
	return s.readBool(ctx, NotificationsKey, true)
}

// SetNotificationsEnabled persists the toggle and reports whether it changed
// from enabled to disabled, which is when callers must withdraw reminders.
func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) (disabled bool, err error) {
	current, err := s.NotificationsEnabled(ctx)
	if err != nil {
		return false, err
	}
	if err := s.writeBool(ctx, NotificationsKey, enabled); err != nil {
		return false, err
	}
	return current && !enabled, nil
}

// OnboardingShown reports whether the welcome screen has been dismissed before.
func (s *Store) OnboardingShown(ctx context.Context) (bool, error) {
	return s.readBool(ctx, OnboardingKey, false)
}

// MarkOnboardingShown records that the welcome screen was dismissed.
func (s *Store) MarkOnboardingShown(ctx context.Context) error {
	return s.writeBool(ctx, OnboardingKey, true)
}

// Load reads every setting.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	enabled, err := s.NotificationsEnabled(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	shown, err := s.OnboardingShown(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{NotificationsEnabled: enabled, OnboardingShown: shown}, nil
}

func (s *Store) readBool(ctx context.Context, key string, fallback bool) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return fallback, nil
		}
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}

	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return fallback, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) writeBool(ctx context.Context, key string, value bool) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
