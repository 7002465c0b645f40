// SPDX-License-Identifier: MPL-2.0

// Package scaffold synthesizes the directory skeleton and manifest for a new
// extension. Writing is all-or-nothing: the skeleton is staged in a hidden
// temporary directory and renamed into place as the final step, so a
// concurrent catalog scan never observes a half-written extension.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

// nameRegex validates extension names: dot-separated segments, each starting
// with a letter, alphanumeric plus underscore after that.
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)*$`)

var (
	// ErrAlreadyExists is the sentinel error wrapped by AlreadyExistsError.
	ErrAlreadyExists = errors.New("extension already exists")
	// ErrInvalidCategory is the sentinel error wrapped by InvalidCategoryError.
	ErrInvalidCategory = errors.New("invalid extension category")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid extension name")
	// ErrWriteFailure is the sentinel error wrapped by WriteFailureError.
	ErrWriteFailure = errors.New("scaffold write failed")
)

type (
	// Options describes the extension to scaffold.
	Options struct {
		// Name is the new extension name (e.g. "lightspeed.myfeature").
		Name string
		// Category must be lightspeed or flux; the derived category
		// "other" is not a creatable target.
		Category manifest.Category
		// Description seeds the manifest description.
		Description string
		// IncludeTests generates tests/unit and tests/e2e stubs.
		IncludeTests bool
		// IncludeUI generates the ui/ module stub.
		IncludeUI bool
	}

	// Plan records what a completed scaffold created.
	Plan struct {
		// Name is the extension name.
		Name string `json:"name"`
		// Path is the final extension directory.
		Path string `json:"path"`
		// Created lists the created files, relative to Path, sorted.
		Created []string `json:"created"`
	}

	// AlreadyExistsError is returned when the name is already taken, either
	// by a cataloged extension or by a directory on disk.
	AlreadyExistsError struct {
		Name string
	}

	// InvalidCategoryError is returned for a category that cannot be
	// scaffolded.
	InvalidCategoryError struct {
		Category manifest.Category
	}

	// InvalidNameError is returned when the name is malformed or does not
	// carry the prefix its category requires.
	InvalidNameError struct {
		Name   string
		Reason string
	}

	// WriteFailureError is returned when staging the skeleton fails. The
	// partially created staging tree is removed before returning.
	WriteFailureError struct {
		Cause error
	}

	// Scaffolder creates extension skeletons inside the repository.
	Scaffolder struct {
		cfg *config.Config
	}
)

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("extension %q already exists", e.Name)
}

// Unwrap returns ErrAlreadyExists so callers can use errors.Is.
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("category must be %q or %q, got %q",
		manifest.CategoryLightspeed, manifest.CategoryFlux, e.Category)
}

// Unwrap returns ErrInvalidCategory so callers can use errors.Is.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid extension name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidName so callers can use errors.Is.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("scaffold write failed: %v", e.Cause)
}

// Unwrap returns ErrWriteFailure so callers can use errors.Is.
func (e *WriteFailureError) Unwrap() error { return ErrWriteFailure }

// New creates a Scaffolder bound to a repository configuration.
func New(cfg *config.Config) *Scaffolder {
	return &Scaffolder{cfg: cfg}
}

// Create validates opts against a fresh catalog snapshot, stages the new
// extension skeleton, and moves it into place atomically. If any write fails
// partway, the staging tree is removed and nothing becomes visible.
func (s *Scaffolder) Create(opts Options, snap *catalog.Snapshot) (*Plan, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if snap.Has(opts.Name) {
		return nil, &AlreadyExistsError{Name: opts.Name}
	}

	target := filepath.Join(s.cfg.ExtensionsRoot(), opts.Name)
	if _, err := os.Stat(target); err == nil {
		return nil, &AlreadyExistsError{Name: opts.Name}
	}

	staging, err := os.MkdirTemp(s.cfg.ExtensionsRoot(), ".scaffold-"+opts.Name+"-")
	if err != nil {
		return nil, &WriteFailureError{Cause: err}
	}
	// MkdirTemp creates 0700; extensions are world-readable like the rest
	// of the tree.
	if err := os.Chmod(staging, 0o755); err != nil {
		_ = os.RemoveAll(staging)
		return nil, &WriteFailureError{Cause: err}
	}

	created, err := writeSkeleton(staging, opts)
	if err != nil {
		_ = os.RemoveAll(staging) // best-effort cleanup, nothing became visible
		return nil, &WriteFailureError{Cause: err}
	}

	// Final step: a same-filesystem rename makes the extension visible to
	// the next scan all at once.
	if err := os.Rename(staging, target); err != nil {
		_ = os.RemoveAll(staging)
		return nil, &WriteFailureError{Cause: err}
	}

	sort.Strings(created)
	return &Plan{Name: opts.Name, Path: target, Created: created}, nil
}

func validate(opts Options) error {
	if opts.Category != manifest.CategoryLightspeed && opts.Category != manifest.CategoryFlux {
		return &InvalidCategoryError{Category: opts.Category}
	}
	if !nameRegex.MatchString(opts.Name) {
		return &InvalidNameError{
			Name:   opts.Name,
			Reason: "must be dot-separated segments starting with a letter",
		}
	}
	if prefix := opts.Category.Prefix(); !strings.HasPrefix(opts.Name, prefix) {
		return &InvalidNameError{
			Name:   opts.Name,
			Reason: fmt.Sprintf("%s extensions must start with %q", opts.Category, prefix),
		}
	}
	return nil
}

// writeSkeleton populates the staging directory and returns the created file
// paths relative to it.
func writeSkeleton(root string, opts Options) ([]string, error) {
	var created []string

	write := func(rel, content string) error {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		created = append(created, rel)
		return nil
	}

	if err := write(manifest.ConfigDirName+"/"+manifest.FileName, renderManifest(opts)); err != nil {
		return nil, err
	}

	// Namespace module: one directory per dotted segment, a package marker
	// in each, and the extension entry point at the deepest level.
	segments := strings.Split(opts.Name, ".")
	moduleDir := ""
	for _, segment := range segments {
		moduleDir = pathJoinSlash(moduleDir, segment)
		if err := write(moduleDir+"/__init__.py", ""); err != nil {
			return nil, err
		}
	}
	if err := write(moduleDir+"/extension.py", renderExtensionModule(opts)); err != nil {
		return nil, err
	}

	if err := write("docs/README.md", renderReadme(opts)); err != nil {
		return nil, err
	}
	if err := write("docs/CHANGELOG.md", renderChangelog(opts)); err != nil {
		return nil, err
	}
	if err := write("premake5.lua", renderPremake(opts)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
		return nil, err
	}

	if opts.IncludeTests {
		if err := write("tests/unit/test_extension.py", renderTestStub(opts)); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Join(root, "tests", "e2e"), 0o755); err != nil {
			return nil, err
		}
	}
	if opts.IncludeUI {
		if err := write(manifest.UIDirName+"/__init__.py", ""); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func pathJoinSlash(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "/" + segment
}
