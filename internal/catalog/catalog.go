// SPDX-License-Identifier: MPL-2.0

// Package catalog discovers extension units inside the repository tree and
// produces an in-memory snapshot of their descriptors. Snapshots are built
// fresh on every scan: the filesystem can change between calls, so nothing
// is cached across them.
package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

type (
	// ScanOptions filters a catalog scan. Zero value means no filtering.
	ScanOptions struct {
		// Category restricts results to one category. An unrecognized
		// value yields an empty result, not an error.
		Category string
		// NameContains performs case-insensitive substring matching
		// against extension names.
		NameContains string
	}

	// ParseFailure records one extension whose manifest could not be read.
	// A broken extension never aborts discovery of the rest.
	ParseFailure struct {
		// Path is the extension directory.
		Path string
		// Err is the manifest read error.
		Err error
	}

	// Snapshot is the result of one catalog scan: descriptors sorted by
	// name, with soft errors collected alongside.
	Snapshot struct {
		// Descriptors are the discovered extensions, sorted ascending by
		// name with no duplicates.
		Descriptors []*manifest.Descriptor
		// Failures lists extensions skipped because their manifest failed
		// to parse, plus duplicate-name collisions.
		Failures []ParseFailure

		byName map[string]*manifest.Descriptor
	}

	// Catalog walks the repository for extensions.
	Catalog struct {
		cfg *config.Config
	}
)

// skipDirs are directory names never descended into during a scan.
var skipDirs = map[string]bool{
	".git":         true,
	"_build":       true,
	"_repo":        true,
	"_compiler":    true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

// New creates a Catalog bound to a repository configuration.
func New(cfg *config.Config) *Catalog {
	return &Catalog{cfg: cfg}
}

// Scan walks the extensions tree and returns a fresh Snapshot. Results are
// ordered lexicographically by name regardless of traversal order so repeated
// scans are diff-stable. Extensions whose manifest fails to parse are skipped
// and recorded on the snapshot.
func (c *Catalog) Scan(opts ScanOptions) (*Snapshot, error) {
	snap := &Snapshot{byName: make(map[string]*manifest.Descriptor)}

	root := c.cfg.ExtensionsRoot()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			if path == root {
				return walkErr
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		// Hidden directories are never extensions; this also keeps
		// scaffolder staging directories out of concurrent scans.
		if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
			return fs.SkipDir
		}

		if !fileExists(manifest.PathFor(path)) {
			return nil
		}

		desc, readErr := manifest.Read(path)
		if readErr != nil {
			snap.Failures = append(snap.Failures, ParseFailure{Path: path, Err: readErr})
			return fs.SkipDir
		}
		desc.Category = categoryOf(c.cfg.RepoRoot, path)

		if _, dup := snap.byName[desc.Name]; dup {
			snap.Failures = append(snap.Failures, ParseFailure{
				Path: path,
				Err:  &DuplicateNameError{Name: desc.Name},
			})
			return fs.SkipDir
		}
		snap.byName[desc.Name] = desc
		snap.Descriptors = append(snap.Descriptors, desc)

		// An extension directory is a leaf of the scan; nested manifests
		// inside it (e.g. fixtures) are not extensions.
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(snap.Descriptors, func(i, j int) bool {
		return snap.Descriptors[i].Name < snap.Descriptors[j].Name
	})

	snap.Descriptors = filterDescriptors(snap.Descriptors, opts)
	return snap, nil
}

// Get returns the descriptor for name, or nil if the snapshot has none.
// Lookup covers all discovered extensions regardless of scan filters.
func (s *Snapshot) Get(name string) *manifest.Descriptor {
	return s.byName[name]
}

// Has reports whether the snapshot contains an extension with that name.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the sorted names of the filtered descriptors.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Descriptors))
	for i, d := range s.Descriptors {
		names[i] = d.Name
	}
	return names
}

func filterDescriptors(in []*manifest.Descriptor, opts ScanOptions) []*manifest.Descriptor {
	if opts.Category == "" && opts.NameContains == "" {
		return in
	}
	needle := strings.ToLower(opts.NameContains)
	out := make([]*manifest.Descriptor, 0, len(in))
	for _, d := range in {
		if opts.Category != "" && string(d.Category) != opts.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// categoryOf derives the category from the path segments between the
// repository root and the extension directory. The innermost segment carrying
// a category marker wins, so an extension nested under both markers is
// classified by the one closest to it.
func categoryOf(repoRoot, extDir string) manifest.Category {
	rel, err := filepath.Rel(repoRoot, extDir)
	if err != nil {
		return manifest.CategoryOther
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		switch seg := segments[i]; {
		case seg == "lightspeed" || strings.HasPrefix(seg, "lightspeed."):
			return manifest.CategoryLightspeed
		case seg == "flux" || strings.HasPrefix(seg, "omni.flux.") || strings.HasPrefix(seg, "flux."):
			return manifest.CategoryFlux
		}
	}
	return manifest.CategoryOther
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
