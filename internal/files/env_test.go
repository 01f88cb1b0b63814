package files

import (
	"path/filepath"
	"testing"
)

func TestResolveBasePath(t *testing.T) {
	home := t.TempDir()
	custom := filepath.Join(t.TempDir(), "custom-root")

	tests := []struct {
		name     string
		override string
		want     string
	}{
		{name: "override", override: custom, want: custom},
		{name: "tilde", override: "~/sejak-data", want: filepath.Join(home, "sejak-data")},
		{name: "blank falls back", override: "   ", want: filepath.Join(home, DefaultDirName)},
		{name: "unset", override: "", want: filepath.Join(home, DefaultDirName)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv(HomeEnv, tc.override)

			got, err := ResolveBasePath()
			if err != nil {
				t.Fatalf("ResolveBasePath() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveBasePath() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv(ConfigEnv, "")
	if got, err := ResolveConfigPath(); err != nil || got != "" {
		t.Fatalf("unset: got %q, %v", got, err)
	}

	t.Setenv(ConfigEnv, "~/conf/sejak.yaml")
	got, err := ResolveConfigPath()
	if err != nil {
		t.Fatalf("ResolveConfigPath() error = %v", err)
	}
	if want := filepath.Join(home, "conf", "sejak.yaml"); got != want {
		t.Fatalf("ResolveConfigPath() = %q, want %q", got, want)
	}
}

func TestExpandPathLeavesOtherPathsAlone(t *testing.T) {
	got, err := ExpandPath("data/../events.ics")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != "events.ics" {
		t.Fatalf("ExpandPath() = %q", got)
	}

	got, err = ExpandPath("~other/x")
	if err != nil || got != "~other/x" {
		t.Fatalf("ExpandPath(~other/x) = %q, %v", got, err)
	}
}
