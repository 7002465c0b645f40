// SPDX-License-Identifier: MPL-2.0

// Package issue converts core errors into structured, agent-facing failures:
// a machine-readable kind plus a human-readable message with optional
// suggestions. Soft errors never pass through here: they travel alongside
// successful results; issue is for hard failures that abort one operation.
package issue

import (
	"errors"
	"strings"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/depgraph"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
	"github.com/Night1099/toolkit-remix-mcp/internal/runner"
	"github.com/Night1099/toolkit-remix-mcp/internal/scaffold"
	"github.com/Night1099/toolkit-remix-mcp/internal/search"
)

const (
	// KindManifestMissing: no manifest at the expected location.
	KindManifestMissing Kind = "manifest_missing"
	// KindManifestMalformed: manifest could not be parsed.
	KindManifestMalformed Kind = "manifest_malformed"
	// KindUnknownExtension: dependency query root not in the catalog.
	KindUnknownExtension Kind = "unknown_extension"
	// KindInvalidPattern: search pattern or glob does not compile.
	KindInvalidPattern Kind = "invalid_pattern"
	// KindSearchTimeout: the search wall-clock bound fired.
	KindSearchTimeout Kind = "search_timeout"
	// KindAlreadyExists: scaffold target name is taken.
	KindAlreadyExists Kind = "already_exists"
	// KindInvalidCategory: scaffold category is not creatable.
	KindInvalidCategory Kind = "invalid_category"
	// KindInvalidName: scaffold name is malformed for its category.
	KindInvalidName Kind = "invalid_name"
	// KindWriteFailure: scaffold staging failed; nothing was written.
	KindWriteFailure Kind = "write_failure"
	// KindPathOutsideRoot: a caller path escapes the repository root.
	KindPathOutsideRoot Kind = "path_outside_root"
	// KindInvalidWorkdir: a process working directory does not exist.
	KindInvalidWorkdir Kind = "invalid_workdir"
	// KindMissingScript: a repository script an operation needs is absent.
	KindMissingScript Kind = "missing_script"
	// KindInternal: anything not covered by a specific kind.
	KindInternal Kind = "internal"
)

type (
	// Kind is the machine-readable classification of a failure.
	Kind string

	// Failure is the structured shape of one aborted operation.
	Failure struct {
		// Kind classifies the failure for programmatic handling.
		Kind Kind `json:"kind"`
		// Message is the human-readable description.
		Message string `json:"message"`
		// Suggestions are optional hints on how to proceed.
		Suggestions []string `json:"suggestions,omitempty"`
	}
)

// kindOf maps the core error taxonomy onto failure kinds via errors.Is.
var kindOf = []struct {
	sentinel error
	kind     Kind
}{
	{manifest.ErrMissing, KindManifestMissing},
	{manifest.ErrMalformed, KindManifestMalformed},
	{depgraph.ErrUnknownExtension, KindUnknownExtension},
	{search.ErrInvalidPattern, KindInvalidPattern},
	{search.ErrTimeout, KindSearchTimeout},
	{scaffold.ErrAlreadyExists, KindAlreadyExists},
	{scaffold.ErrInvalidCategory, KindInvalidCategory},
	{scaffold.ErrInvalidName, KindInvalidName},
	{scaffold.ErrWriteFailure, KindWriteFailure},
	{config.ErrPathOutsideRoot, KindPathOutsideRoot},
	{runner.ErrInvalidWorkdir, KindInvalidWorkdir},
	{runner.ErrMissingScript, KindMissingScript},
	{catalog.ErrDuplicateName, KindInternal},
}

// FromError classifies err into a Failure. Unrecognized errors become
// KindInternal rather than panicking the serving process.
func FromError(err error) *Failure {
	f := &Failure{Kind: KindInternal, Message: err.Error()}
	for _, m := range kindOf {
		if errors.Is(err, m.sentinel) {
			f.Kind = m.kind
			break
		}
	}
	f.Suggestions = suggestionsFor(f.Kind)
	return f
}

// String renders the failure for plain-text surfaces, kind first so an agent
// can dispatch on the prefix.
func (f *Failure) String() string {
	var b strings.Builder
	b.WriteString(string(f.Kind))
	b.WriteString(": ")
	b.WriteString(f.Message)
	for _, s := range f.Suggestions {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

func suggestionsFor(kind Kind) []string {
	switch kind {
	case KindUnknownExtension:
		return []string{"Run list_extensions to see the available extension names"}
	case KindInvalidCategory:
		return []string{`Use "lightspeed" or "flux"`}
	case KindInvalidName:
		return []string{
			`Lightspeed extensions must start with "lightspeed."`,
			`Flux extensions must start with "omni.flux."`,
		}
	case KindSearchTimeout:
		return []string{"Narrow the file glob or make the pattern more specific"}
	case KindMissingScript:
		return []string{"Check the repository checkout; per-extension test scripts only exist after a build"}
	default:
		return nil
	}
}
