// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newRepoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "source", "extensions"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{RepoRoot: newRepoRoot(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Timeouts != DefaultTimeouts() {
		t.Errorf("Timeouts = %+v, want defaults", cfg.Timeouts)
	}
	if cfg.Search != DefaultSearchLimits() {
		t.Errorf("Search = %+v, want defaults", cfg.Search)
	}
	if !filepath.IsAbs(cfg.RepoRoot) {
		t.Errorf("RepoRoot = %q, want absolute", cfg.RepoRoot)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	root := newRepoRoot(t)
	cfgFile := filepath.Join(t.TempDir(), "remix-mcp.toml")
	content := `
[timeouts]
build = "90s"

[search]
max_matches = 50
`
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{RepoRoot: root, ConfigFilePath: cfgFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timeouts.Build != 90*time.Second {
		t.Errorf("Build timeout = %v, want 90s", cfg.Timeouts.Build)
	}
	// Untouched keys keep their defaults.
	if cfg.Timeouts.Test != DefaultTimeouts().Test {
		t.Errorf("Test timeout = %v, want default", cfg.Timeouts.Test)
	}
	if cfg.Search.MaxMatches != 50 {
		t.Errorf("MaxMatches = %d, want 50", cfg.Search.MaxMatches)
	}
}

func TestLoadRejectsBadRoots(t *testing.T) {
	t.Parallel()

	// Present directory but no source/extensions layout.
	_, err := Load(LoadOptions{RepoRoot: t.TempDir()})
	if !errors.Is(err, ErrInvalidRepoRoot) {
		t.Fatalf("error = %v, want ErrInvalidRepoRoot", err)
	}

	_, err = Load(LoadOptions{RepoRoot: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, ErrInvalidRepoRoot) {
		t.Fatalf("error = %v, want ErrInvalidRepoRoot", err)
	}
}

func TestWithinRoot(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{RepoRoot: newRepoRoot(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name    string
		rel     string
		wantErr bool
	}{
		{"relative inside", "source/extensions", false},
		{"dot", ".", false},
		{"absolute inside", filepath.Join(cfg.RepoRoot, "source"), false},
		{"parent escape", "../outside", true},
		{"sneaky escape", "source/../../outside", true},
		{"absolute outside", string(filepath.Separator) + "etc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := cfg.WithinRoot(tt.rel)
			if tt.wantErr {
				if !errors.Is(err, ErrPathOutsideRoot) {
					t.Fatalf("WithinRoot(%q) error = %v, want ErrPathOutsideRoot", tt.rel, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("WithinRoot(%q) error = %v", tt.rel, err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("WithinRoot(%q) = %q, want absolute", tt.rel, got)
			}
		})
	}
}

func TestTimeoutFor(t *testing.T) {
	t.Parallel()

	cfg := &Config{Timeouts: DefaultTimeouts()}
	tests := []struct {
		kind string
		want time.Duration
	}{
		{"build", cfg.Timeouts.Build},
		{"test", cfg.Timeouts.Test},
		{"format", cfg.Timeouts.Format},
		{"lint", cfg.Timeouts.Lint},
		{"search", cfg.Timeouts.Search},
		{"unknown", cfg.Timeouts.Search},
	}
	for _, tt := range tests {
		if got := cfg.TimeoutFor(tt.kind); got != tt.want {
			t.Errorf("TimeoutFor(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestValidateBounds(t *testing.T) {
	t.Parallel()

	bad := Timeouts{Build: -time.Second, Test: time.Second, Format: time.Second, Lint: time.Second, Search: time.Second}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTimeout) {
		t.Errorf("Timeouts.Validate() = %v, want ErrInvalidTimeout", err)
	}

	limits := SearchLimits{MaxMatches: 0, MaxMatchesPerFile: 1, ContextLines: 0}
	if err := limits.Validate(); !errors.Is(err, ErrInvalidSearchLimits) {
		t.Errorf("SearchLimits.Validate() = %v, want ErrInvalidSearchLimits", err)
	}
}
