package settings

import (
	"context"
	"testing"

	"github.com/faizmokh/sejak/internal/kv"
)

func newStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backing := kv.NewFileStore(t.TempDir())
	return NewStore(backing), backing
}

func TestNotificationsDefaultToEnabled(t *testing.T) {
	store, _ := newStore(t)

	enabled, err := store.NotificationsEnabled(context.Background())
	if err != nil {
		t.Fatalf("NotificationsEnabled: %v", err)
	}
	if !enabled {
		t.Fatal("NotificationsEnabled = false, want true when unset")
	}
}

func TestSetNotificationsEnabledReportsDisableTransition(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	disabled, err := store.SetNotificationsEnabled(ctx, false)
	if err != nil {
		t.Fatalf("SetNotificationsEnabled(false): %v", err)
	}
	if !disabled {
		t.Fatal("first disable should report a transition")
	}

	disabled, err = store.SetNotificationsEnabled(ctx, false)
	if err != nil {
		t.Fatalf("SetNotificationsEnabled(false) again: %v", err)
	}
	if disabled {
		t.Fatal("disabling twice should not report a second transition")
	}

	if disabled, _ = store.SetNotificationsEnabled(ctx, true); disabled {
		t.Fatal("enabling should not report a disable transition")
	}

	enabled, err := store.NotificationsEnabled(ctx)
	if err != nil || !enabled {
		t.Fatalf("NotificationsEnabled = %v, %v; want true", enabled, err)
	}
}

func TestOnboardingFlag(t *testing.T) {
	ctx := context.Background()
	store, backing := newStore(t)

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.OnboardingShown || !snap.NotificationsEnabled {
		t.Fatalf("Load on empty store = %+v", snap)
	}

	if err := store.MarkOnboardingShown(ctx); err != nil {
		t.Fatalf("MarkOnboardingShown: %v", err)
	}

	raw, err := backing.Get(ctx, OnboardingKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != "true" {
		t.Fatalf("stored flag = %q, want true", raw)
	}

	snap, _ = store.Load(ctx)
	if !snap.OnboardingShown {
		t.Fatal("OnboardingShown = false after marking")
	}
}
