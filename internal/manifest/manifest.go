// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the declarative configuration of a single extension
// (config/extension.toml) into a structured descriptor. Manifests are
// hand-maintained by many extension authors, so parsing is deliberately
// tolerant: missing optional fields default to neutral values instead of
// failing the read.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigDirName is the directory inside an extension that holds the
	// manifest.
	ConfigDirName = "config"
	// FileName is the manifest file name.
	FileName = "extension.toml"
	// TestsDirName is the conventional test directory of an extension.
	TestsDirName = "tests"
	// UIDirName is the conventional UI module directory of an extension.
	UIDirName = "ui"
)

const (
	// CategoryLightspeed marks RTX-Remix-specific extensions
	// (lightspeed.* naming).
	CategoryLightspeed Category = "lightspeed"
	// CategoryFlux marks generic reusable extensions (omni.flux.* naming).
	CategoryFlux Category = "flux"
	// CategoryOther marks extensions outside both conventions.
	CategoryOther Category = "other"
)

var (
	// ErrMissing is the sentinel error wrapped by MissingError.
	ErrMissing = errors.New("manifest file missing")
	// ErrMalformed is the sentinel error wrapped by MalformedError.
	ErrMalformed = errors.New("manifest malformed")
)

type (
	// Category is the coarse classification of an extension, derived from
	// its location in the repository tree rather than from manifest data.
	Category string

	// Descriptor is the structured view of one discovered extension.
	// It is immutable after construction and rebuilt fresh on every
	// catalog scan.
	Descriptor struct {
		// Name is the unique dotted identifier (e.g. "lightspeed.trex.app").
		Name string `json:"name"`
		// Path is the absolute extension directory inside the repository.
		Path string `json:"path"`
		// Category is filled in by the catalog from the path convention.
		Category Category `json:"category"`
		// Version is the declared version, empty if not declared.
		Version string `json:"version,omitempty"`
		// Description is the declared description, empty if not declared.
		Description string `json:"description,omitempty"`
		// Dependencies are the declared dependency names, sorted. Entries
		// may reference extensions that do not exist in the repository.
		Dependencies []string `json:"dependencies"`
		// HasTests reports whether the extension has a tests/ directory.
		HasTests bool `json:"has_tests"`
		// HasUI reports whether the extension has a ui/ module.
		HasUI bool `json:"has_ui"`
	}

	// MissingError is returned when no manifest exists at the expected
	// location inside an extension directory.
	MissingError struct {
		Path string
	}

	// MalformedError is returned when the manifest cannot be parsed into
	// the expected key set.
	MalformedError struct {
		Path  string
		Cause error
	}

	// file mirrors the on-disk TOML layout. Only the keys the server cares
	// about are decoded; unknown keys are ignored.
	file struct {
		Package struct {
			Name        string `toml:"name"`
			Version     string `toml:"version"`
			Description string `toml:"description"`
		} `toml:"package"`
		Dependencies map[string]any `toml:"dependencies"`
	}
)

// Error implements the error interface.
func (e *MissingError) Error() string {
	return fmt.Sprintf("no manifest found at %s", e.Path)
}

// Unwrap returns ErrMissing so callers can use errors.Is.
func (e *MissingError) Unwrap() error { return ErrMissing }

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrMalformed so callers can use errors.Is.
func (e *MalformedError) Unwrap() error { return ErrMalformed }

// IsValid returns whether the Category is one of the recognized values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryLightspeed, CategoryFlux, CategoryOther:
		return true
	}
	return false
}

// Prefix returns the mandatory name prefix for extensions of this category,
// or empty when the category imposes none.
func (c Category) Prefix() string {
	switch c {
	case CategoryLightspeed:
		return "lightspeed."
	case CategoryFlux:
		return "omni.flux."
	default:
		return ""
	}
}

// PathFor returns the manifest path for an extension directory.
func PathFor(extDir string) string {
	return filepath.Join(extDir, ConfigDirName, FileName)
}

// Read parses the manifest of the extension rooted at extDir and derives the
// test/UI presence flags from the directory layout. Category is left for the
// caller to assign. Read is a pure filesystem read with no side effects.
func Read(extDir string) (*Descriptor, error) {
	path := PathFor(extDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingError{Path: path}
		}
		return nil, &MalformedError{Path: path, Cause: err}
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, &MalformedError{Path: path, Cause: err}
	}

	name := f.Package.Name
	if name == "" {
		// The directory name is authoritative when the manifest omits it.
		name = filepath.Base(extDir)
	}

	deps := make([]string, 0, len(f.Dependencies))
	for dep := range f.Dependencies {
		deps = append(deps, dep)
	}
	sort.Strings(deps)

	return &Descriptor{
		Name:         name,
		Path:         extDir,
		Version:      f.Package.Version,
		Description:  f.Package.Description,
		Dependencies: deps,
		HasTests:     dirExists(filepath.Join(extDir, TestsDirName)),
		HasUI:        dirExists(filepath.Join(extDir, UIDirName)),
	}, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
