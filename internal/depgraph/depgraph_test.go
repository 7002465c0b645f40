// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

// snapshotOf builds a catalog snapshot from a synthetic repository whose
// extensions declare the given dependency lists.
func snapshotOf(t *testing.T, deps map[string][]string) *catalog.Snapshot {
	t.Helper()

	root := t.TempDir()
	extRoot := filepath.Join(root, "source", "extensions")
	if err := os.MkdirAll(extRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, dd := range deps {
		cfgDir := filepath.Join(extRoot, name, manifest.ConfigDirName)
		if err := os.MkdirAll(cfgDir, 0o755); err != nil {
			t.Fatal(err)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "[package]\nname = %q\n\n[dependencies]\n", name)
		for _, dep := range dd {
			fmt.Fprintf(&b, "%q = {}\n", dep)
		}
		if err := os.WriteFile(filepath.Join(cfgDir, manifest.FileName), []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := config.Load(config.LoadOptions{RepoRoot: root})
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	snap, err := catalog.New(cfg).Scan(catalog.ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return snap
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDependenciesOfNoDependencies(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{"lightspeed.leaf": nil})
	res, err := DependenciesOf("lightspeed.leaf", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if len(res.Direct) != 0 || len(res.Transitive) != 0 || len(res.Missing) != 0 {
		t.Errorf("resolution = %+v, want all empty", res)
	}
	if res.Cycle {
		t.Error("Cycle = true, want false")
	}
}

func TestDependenciesOfTransitiveClosure(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"lightspeed.app":  {"omni.flux.mid"},
		"omni.flux.mid":   {"omni.flux.base", "omni.flux.utils"},
		"omni.flux.base":  nil,
		"omni.flux.utils": {"omni.flux.base"},
	})

	res, err := DependenciesOf("lightspeed.app", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !equalStrings(res.Direct, []string{"omni.flux.mid"}) {
		t.Errorf("Direct = %v", res.Direct)
	}
	if !equalStrings(res.Transitive, []string{"omni.flux.base", "omni.flux.utils"}) {
		t.Errorf("Transitive = %v", res.Transitive)
	}
	if len(res.Missing) != 0 || res.Cycle {
		t.Errorf("Missing = %v, Cycle = %v", res.Missing, res.Cycle)
	}
}

func TestDependenciesOfMissing(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"lightspeed.app": {"omni.flux.real", "omni.ghost"},
		"omni.flux.real": {"omni.phantom"},
	})

	res, err := DependenciesOf("lightspeed.app", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !equalStrings(res.Missing, []string{"omni.ghost", "omni.phantom"}) {
		t.Errorf("Missing = %v", res.Missing)
	}
	// A dangling dependency is reported, never an error.
	if res.Cycle {
		t.Error("Cycle = true, want false")
	}
}

func TestDependenciesOfCycleTerminates(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"omni.flux.a": {"omni.flux.b"},
		"omni.flux.b": {"omni.flux.a"},
	})

	res, err := DependenciesOf("omni.flux.a", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !res.Cycle {
		t.Error("Cycle = false, want true")
	}
	if !equalStrings(res.Direct, []string{"omni.flux.b"}) {
		t.Errorf("Direct = %v", res.Direct)
	}
}

func TestDependenciesOfSelfDependency(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"omni.flux.selfish": {"omni.flux.selfish"},
	})

	res, err := DependenciesOf("omni.flux.selfish", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !res.Cycle {
		t.Error("Cycle = false, want true")
	}
	if len(res.Transitive) != 0 {
		t.Errorf("Transitive = %v, want empty", res.Transitive)
	}
}

func TestDependenciesOfMaxDepth(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"lightspeed.app": {"omni.flux.d1"},
		"omni.flux.d1":   {"omni.flux.d2"},
		"omni.flux.d2":   {"omni.flux.d3"},
		"omni.flux.d3":   nil,
	})

	res, err := DependenciesOf("lightspeed.app", snap, 2)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !equalStrings(res.Transitive, []string{"omni.flux.d2"}) {
		t.Errorf("Transitive at depth 2 = %v, want [omni.flux.d2]", res.Transitive)
	}

	res, err = DependenciesOf("lightspeed.app", snap, 0)
	if err != nil {
		t.Fatalf("DependenciesOf() error = %v", err)
	}
	if !equalStrings(res.Transitive, []string{"omni.flux.d2", "omni.flux.d3"}) {
		t.Errorf("unbounded Transitive = %v", res.Transitive)
	}
}

func TestDependenciesOfUnknownRoot(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{"lightspeed.known": nil})
	_, err := DependenciesOf("lightspeed.nope", snap, 0)
	if !errors.Is(err, ErrUnknownExtension) {
		t.Fatalf("error = %v, want ErrUnknownExtension", err)
	}

	var ue *UnknownExtensionError
	if !errors.As(err, &ue) || ue.Name != "lightspeed.nope" {
		t.Errorf("error = %#v, want UnknownExtensionError for lightspeed.nope", err)
	}
}

func TestBuildOrderTopological(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"lightspeed.app":  {"omni.flux.mid"},
		"omni.flux.mid":   {"omni.flux.base"},
		"omni.flux.base":  nil,
		"omni.flux.loose": {"not.in.repo"},
	})

	order, err := BuildOrder(snap)
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("order = %v, want 4 entries", order)
	}
	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	if pos["omni.flux.base"] > pos["omni.flux.mid"] || pos["omni.flux.mid"] > pos["lightspeed.app"] {
		t.Errorf("order = %v violates dependencies", order)
	}
}

func TestBuildOrderCycle(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, map[string][]string{
		"omni.flux.a": {"omni.flux.b"},
		"omni.flux.b": {"omni.flux.a"},
		"omni.flux.c": nil,
	})

	_, err := BuildOrder(snap)
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("error = %v, want ErrDependencyCycle", err)
	}

	var ce *CycleError
	if !errors.As(err, &ce) || len(ce.Cycle) != 2 {
		t.Errorf("CycleError.Cycle = %v, want the two blocked extensions", err)
	}
}

func TestBuildOrderEmptySnapshot(t *testing.T) {
	t.Parallel()

	snap := snapshotOf(t, nil)
	order, err := BuildOrder(snap)
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}
	if len(order) != 0 {
		t.Errorf("order = %v, want empty", order)
	}
}
