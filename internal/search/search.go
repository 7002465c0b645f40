// SPDX-License-Identifier: MPL-2.0

// Package search performs bounded, timeout-guarded pattern scans over the
// repository tree. Three independent caps apply to every scan: a wall-clock
// timeout, a global match cap, and a per-file match cap: whichever fires
// first stops further scanning. Hitting a count cap truncates the result;
// hitting the timeout fails the scan, so callers can always tell the two
// apart.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Night1099/toolkit-remix-mcp/internal/config"
)

const (
	// DefaultGlob is used when the caller supplies no file pattern.
	DefaultGlob = "**/*"

	// binarySniffLen is how many leading bytes are inspected for a NUL
	// byte when deciding whether a file is binary.
	binarySniffLen = 512

	// maxFileSize is the largest file the engine will scan. Larger files
	// are skipped silently, the same as binary files.
	maxFileSize = 4 << 20
)

var (
	// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid search pattern")
	// ErrTimeout is the sentinel error wrapped by TimeoutError.
	ErrTimeout = errors.New("search timed out")

	// errStopWalk aborts the tree walk once the global cap is reached.
	errStopWalk = errors.New("stop walk")
)

// ignoreDirs are directory names never descended into. Version-control
// metadata, build output, and dependency caches dominate scan cost without
// ever holding source worth matching.
var ignoreDirs = map[string]bool{
	".git":         true,
	"_build":       true,
	"_repo":        true,
	"_compiler":    true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

type (
	// Options describes one search request.
	Options struct {
		// Pattern is a regular expression matched per line.
		Pattern string
		// Glob filters files by repository-relative path
		// (doublestar syntax, e.g. "**/*.py"). Empty means all files.
		Glob string
	}

	// Match is one matching line with its surrounding context window.
	Match struct {
		// File is the repository-relative path, slash-separated.
		File string `json:"file"`
		// Line is the 1-based line number.
		Line int `json:"line"`
		// Text is the matching line, without its line ending.
		Text string `json:"text"`
		// Before and After hold the fixed context window around the match.
		Before []string `json:"before,omitempty"`
		After  []string `json:"after,omitempty"`
	}

	// Report is the outcome of a completed (possibly truncated) scan.
	Report struct {
		// Matches are ordered by file path, then line number.
		Matches []Match `json:"matches"`
		// Truncated reports that a count cap stopped the scan early.
		// A timeout never produces a truncated report; it fails instead.
		Truncated bool `json:"truncated"`
		// FilesScanned counts the files actually read.
		FilesScanned int `json:"files_scanned"`
	}

	// InvalidPatternError is returned before any filesystem access when
	// the pattern does not compile.
	InvalidPatternError struct {
		Pattern string
		Cause   error
	}

	// TimeoutError is returned when the wall-clock bound fires mid-scan.
	TimeoutError struct {
		Limit time.Duration
	}

	// Engine scans the repository for pattern matches.
	Engine struct {
		cfg *config.Config
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns ErrInvalidPattern so callers can use errors.Is.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("search timed out after %s", e.Limit)
}

// Unwrap returns ErrTimeout so callers can use errors.Is.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// New creates an Engine bound to a repository configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Search scans the repository for opts.Pattern. The pattern is validated
// before any filesystem access. The scan is bounded by the configured search
// timeout and match caps; see the package comment for how the bounds interact.
func (e *Engine) Search(ctx context.Context, opts Options) (*Report, error) {
	re, err := regexp.Compile(opts.Pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: opts.Pattern, Cause: err}
	}

	glob := opts.Glob
	if glob == "" {
		glob = DefaultGlob
	}
	if !doublestar.ValidatePattern(glob) {
		return nil, &InvalidPatternError{Pattern: glob, Cause: errors.New("malformed file glob")}
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeouts.Search)
	defer cancel()

	report := &Report{}
	walkErr := filepath.WalkDir(e.cfg.RepoRoot, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			if path == e.cfg.RepoRoot {
				return werr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if ignoreDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(e.cfg.RepoRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(glob, rel); !ok {
			return nil
		}

		if done := e.scanFile(report, re, path, rel); done {
			return errStopWalk
		}
		return nil
	})

	switch {
	case walkErr == nil || errors.Is(walkErr, errStopWalk):
		return report, nil
	case errors.Is(walkErr, context.DeadlineExceeded) || errors.Is(walkErr, context.Canceled):
		return nil, &TimeoutError{Limit: e.cfg.Timeouts.Search}
	default:
		return nil, walkErr
	}
}

// scanFile appends matches from one file and reports whether the global cap
// is now exhausted.
func (e *Engine) scanFile(report *Report, re *regexp.Regexp, path, rel string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxFileSize {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// Unreadable files are skipped, the scan goes on.
		return false
	}
	if isBinary(data) {
		return false
	}
	report.FilesScanned++

	lines := strings.Split(string(data), "\n")
	window := e.cfg.Search.ContextLines
	fileMatches := 0
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !re.MatchString(line) {
			continue
		}
		report.Matches = append(report.Matches, Match{
			File:   rel,
			Line:   i + 1,
			Text:   line,
			Before: contextWindow(lines, i-window, i),
			After:  contextWindow(lines, i+1, i+1+window),
		})
		fileMatches++
		if len(report.Matches) >= e.cfg.Search.MaxMatches {
			report.Truncated = true
			return true
		}
		if fileMatches >= e.cfg.Search.MaxMatchesPerFile {
			report.Truncated = true
			return false
		}
	}
	return false
}

func contextWindow(lines []string, from, to int) []string {
	from = max(from, 0)
	to = min(to, len(lines))
	if from >= to {
		return nil
	}
	out := make([]string, 0, to-from)
	for _, line := range lines[from:to] {
		out = append(out, strings.TrimSuffix(line, "\r"))
	}
	return out
}

func isBinary(data []byte) bool {
	n := min(len(data), binarySniffLen)
	return bytes.IndexByte(data[:n], 0) >= 0
}
