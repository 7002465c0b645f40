// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

func newTestRepo(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "source", "extensions"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(config.LoadOptions{RepoRoot: root})
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func scan(t *testing.T, cfg *config.Config) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.New(cfg).Scan(catalog.ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return snap
}

func TestCreateLightspeedExtension(t *testing.T) {
	t.Parallel()

	cfg := newTestRepo(t)
	plan, err := New(cfg).Create(Options{
		Name:         "lightspeed.myfeature",
		Category:     manifest.CategoryLightspeed,
		Description:  "My feature",
		IncludeTests: true,
	}, scan(t, cfg))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if plan.Path != filepath.Join(cfg.ExtensionsRoot(), "lightspeed.myfeature") {
		t.Errorf("Path = %q", plan.Path)
	}
	for _, rel := range []string{
		"config/extension.toml",
		"lightspeed/__init__.py",
		"lightspeed/myfeature/__init__.py",
		"lightspeed/myfeature/extension.py",
		"docs/README.md",
		"docs/CHANGELOG.md",
		"premake5.lua",
		"tests/unit/test_extension.py",
	} {
		if _, err := os.Stat(filepath.Join(plan.Path, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected file %s: %v", rel, err)
		}
	}

	// No staging leftovers.
	entries, err := os.ReadDir(cfg.ExtensionsRoot())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".scaffold-") {
			t.Errorf("staging directory left behind: %s", e.Name())
		}
	}
}

func TestCreateRoundTripsThroughCatalog(t *testing.T) {
	t.Parallel()

	cfg := newTestRepo(t)
	_, err := New(cfg).Create(Options{
		Name:         "omni.flux.widget",
		Category:     manifest.CategoryFlux,
		Description:  "A widget",
		IncludeTests: true,
		IncludeUI:    true,
	}, scan(t, cfg))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	snap := scan(t, cfg)
	desc := snap.Get("omni.flux.widget")
	if desc == nil {
		t.Fatal("created extension not discovered by a scan")
	}
	if desc.Category != manifest.CategoryFlux {
		t.Errorf("Category = %q, want flux", desc.Category)
	}
	if desc.Description != "A widget" {
		t.Errorf("Description = %q", desc.Description)
	}
	if !desc.HasTests {
		t.Error("HasTests = false, want true")
	}
	if !desc.HasUI {
		t.Error("HasUI = false, want true")
	}
}

func TestCreateAlreadyExists(t *testing.T) {
	t.Parallel()

	cfg := newTestRepo(t)
	opts := Options{Name: "lightspeed.twice", Category: manifest.CategoryLightspeed}

	if _, err := New(cfg).Create(opts, scan(t, cfg)); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	before := treeOf(t, cfg.ExtensionsRoot())
	_, err := New(cfg).Create(opts, scan(t, cfg))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second Create() error = %v, want ErrAlreadyExists", err)
	}
	after := treeOf(t, cfg.ExtensionsRoot())

	if len(before) != len(after) {
		t.Errorf("refused create changed the tree: %d -> %d entries", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("tree changed at %q -> %q", before[i], after[i])
		}
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"other category", Options{Name: "x.y", Category: manifest.CategoryOther}, ErrInvalidCategory},
		{"bogus category", Options{Name: "x.y", Category: manifest.Category("bogus")}, ErrInvalidCategory},
		{"wrong prefix", Options{Name: "myfeature", Category: manifest.CategoryLightspeed}, ErrInvalidName},
		{"flux without omni prefix", Options{Name: "flux.widget", Category: manifest.CategoryFlux}, ErrInvalidName},
		{"bad characters", Options{Name: "lightspeed.my feature", Category: manifest.CategoryLightspeed}, ErrInvalidName},
		{"leading digit", Options{Name: "lightspeed.9lives", Category: manifest.CategoryLightspeed}, ErrInvalidName},
		{"empty name", Options{Name: "", Category: manifest.CategoryLightspeed}, ErrInvalidName},
	}

	cfg := newTestRepo(t)
	snap := scan(t, cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(cfg).Create(tt.opts, snap)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateManifestContents(t *testing.T) {
	t.Parallel()

	cfg := newTestRepo(t)
	plan, err := New(cfg).Create(Options{
		Name:        "lightspeed.probe",
		Category:    manifest.CategoryLightspeed,
		Description: "Probing",
	}, scan(t, cfg))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	desc, err := manifest.Read(plan.Path)
	if err != nil {
		t.Fatalf("generated manifest does not parse: %v", err)
	}
	if desc.Name != "lightspeed.probe" {
		t.Errorf("Name = %q", desc.Name)
	}
	if desc.Description != "Probing" {
		t.Errorf("Description = %q", desc.Description)
	}
	if desc.Version == "" {
		t.Error("Version is empty, want a seeded version")
	}
}

// treeOf returns the sorted relative paths under root.
func treeOf(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return paths
}
