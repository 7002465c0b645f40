// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultBuildTimeout bounds a full repository build.
	DefaultBuildTimeout = 300 * time.Second
	// DefaultTestTimeout bounds a test run (whole repo or single extension).
	DefaultTestTimeout = 600 * time.Second
	// DefaultFormatTimeout bounds a formatting pass.
	DefaultFormatTimeout = 120 * time.Second
	// DefaultLintTimeout bounds a lint pass.
	DefaultLintTimeout = 120 * time.Second
	// DefaultSearchTimeout bounds a code search scan.
	DefaultSearchTimeout = 30 * time.Second

	// DefaultMaxMatches caps the total number of search matches returned.
	DefaultMaxMatches = 200
	// DefaultMaxMatchesPerFile caps matches reported from a single file.
	DefaultMaxMatchesPerFile = 20
	// DefaultContextLines is the window of surrounding lines per match.
	DefaultContextLines = 2
)

var (
	// ErrInvalidRepoRoot is the sentinel error wrapped by InvalidRepoRootError.
	ErrInvalidRepoRoot = errors.New("invalid repository root")
	// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidSearchLimits is the sentinel error wrapped by InvalidSearchLimitsError.
	ErrInvalidSearchLimits = errors.New("invalid search limits")
	// ErrPathOutsideRoot is the sentinel error wrapped by PathOutsideRootError.
	ErrPathOutsideRoot = errors.New("path escapes repository root")
)

type (
	// Timeouts holds the per-operation wall-clock bounds for externally
	// spawned processes and filesystem scans. A zero field is replaced
	// with its default at load time; overrides must be explicit and are
	// never silently widened afterwards.
	Timeouts struct {
		Build  time.Duration
		Test   time.Duration
		Format time.Duration
		Lint   time.Duration
		Search time.Duration
	}

	// SearchLimits bounds memory and output size of a code search.
	SearchLimits struct {
		// MaxMatches is the global cap across all files.
		MaxMatches int
		// MaxMatchesPerFile stops scanning a single file once reached.
		MaxMatchesPerFile int
		// ContextLines is the number of lines captured before and after
		// each matching line.
		ContextLines int
	}

	// InvalidRepoRootError is returned when the configured repository root
	// does not exist or does not follow the expected repository layout.
	InvalidRepoRootError struct {
		Path   string
		Reason string
	}

	// InvalidTimeoutError is returned when a configured timeout is
	// non-positive.
	InvalidTimeoutError struct {
		Name  string
		Value time.Duration
	}

	// InvalidSearchLimitsError is returned when a search cap is out of range.
	InvalidSearchLimitsError struct {
		Name  string
		Value int
	}

	// PathOutsideRootError is returned when a caller-supplied path resolves
	// outside the repository root.
	PathOutsideRootError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *InvalidRepoRootError) Error() string {
	return fmt.Sprintf("invalid repository root %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidRepoRoot so callers can use errors.Is.
func (e *InvalidRepoRootError) Unwrap() error { return ErrInvalidRepoRoot }

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid %s timeout %s (must be positive)", e.Name, e.Value)
}

// Unwrap returns ErrInvalidTimeout so callers can use errors.Is.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// Error implements the error interface.
func (e *InvalidSearchLimitsError) Error() string {
	return fmt.Sprintf("invalid search limit %s=%d", e.Name, e.Value)
}

// Unwrap returns ErrInvalidSearchLimits so callers can use errors.Is.
func (e *InvalidSearchLimitsError) Unwrap() error { return ErrInvalidSearchLimits }

// Error implements the error interface.
func (e *PathOutsideRootError) Error() string {
	return fmt.Sprintf("path %q escapes the repository root", e.Path)
}

// Unwrap returns ErrPathOutsideRoot so callers can use errors.Is.
func (e *PathOutsideRootError) Unwrap() error { return ErrPathOutsideRoot }

// DefaultTimeouts returns the stock per-operation bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Build:  DefaultBuildTimeout,
		Test:   DefaultTestTimeout,
		Format: DefaultFormatTimeout,
		Lint:   DefaultLintTimeout,
		Search: DefaultSearchTimeout,
	}
}

// DefaultSearchLimits returns the stock search caps.
func DefaultSearchLimits() SearchLimits {
	return SearchLimits{
		MaxMatches:        DefaultMaxMatches,
		MaxMatchesPerFile: DefaultMaxMatchesPerFile,
		ContextLines:      DefaultContextLines,
	}
}

// Validate checks that every timeout is positive.
func (t Timeouts) Validate() error {
	checks := []struct {
		name  string
		value time.Duration
	}{
		{"build", t.Build},
		{"test", t.Test},
		{"format", t.Format},
		{"lint", t.Lint},
		{"search", t.Search},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return &InvalidTimeoutError{Name: c.name, Value: c.value}
		}
	}
	return nil
}

// Validate checks the search caps. ContextLines may be zero (no surrounding
// context) but not negative.
func (l SearchLimits) Validate() error {
	if l.MaxMatches <= 0 {
		return &InvalidSearchLimitsError{Name: "max_matches", Value: l.MaxMatches}
	}
	if l.MaxMatchesPerFile <= 0 {
		return &InvalidSearchLimitsError{Name: "max_matches_per_file", Value: l.MaxMatchesPerFile}
	}
	if l.ContextLines < 0 {
		return &InvalidSearchLimitsError{Name: "context_lines", Value: l.ContextLines}
	}
	return nil
}
