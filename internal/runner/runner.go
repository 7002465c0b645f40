// SPDX-License-Identifier: MPL-2.0

// Package runner drives external build/test/format/lint commands as isolated
// child processes. Every run is bounded by an explicit timeout that kills the
// whole process group. Every outcome, nonzero exits and timeouts included,
// is a structured Result, never an error. Errors are reserved for
// programming mistakes such as an invalid working directory.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// StatusSuccess means the process exited with code zero.
	StatusSuccess Status = "success"
	// StatusFailure means the process exited with a nonzero code.
	StatusFailure Status = "failure"
	// StatusTimeout means the process was killed after exceeding its bound.
	StatusTimeout Status = "timeout"

	// killWaitDelay bounds how long Wait blocks on I/O after the process
	// group has been killed.
	killWaitDelay = 5 * time.Second
)

var (
	// ErrInvalidWorkdir is the sentinel error wrapped by InvalidWorkdirError.
	ErrInvalidWorkdir = errors.New("invalid working directory")
	// ErrInvalidSpec is the sentinel error wrapped by InvalidSpecError.
	ErrInvalidSpec = errors.New("invalid run spec")
	// ErrMissingScript is the sentinel error wrapped by MissingScriptError.
	ErrMissingScript = errors.New("script not found")
)

// envAllowlist names the only host environment variables a child process
// inherits. Everything else must be passed explicitly through Spec.ExtraEnv.
var envAllowlist = []string{
	"PATH", "HOME", "USER", "LOGNAME", "SHELL",
	"TMPDIR", "TEMP", "TMP", "LANG", "LC_ALL",
	"SYSTEMROOT", "SystemRoot", "ComSpec", "PATHEXT",
}

type (
	// Status classifies how a child process ended.
	Status string

	// Spec describes one external command invocation.
	Spec struct {
		// Command is the program to run (absolute path or PATH lookup).
		Command string
		// Args are the program arguments.
		Args []string
		// Dir is the working directory; it must exist.
		Dir string
		// Timeout is the wall-clock bound; it must be positive and is
		// never widened implicitly.
		Timeout time.Duration
		// ExtraEnv are explicit environment additions on top of the
		// allow-listed host variables.
		ExtraEnv map[string]string
	}

	// Result is the structured outcome of one run. Stdout and stderr are
	// preserved up to the point of termination, timeout included.
	Result struct {
		// Command is the rendered command line, for reporting.
		Command string `json:"command"`
		// Status classifies the outcome.
		Status Status `json:"status"`
		// ExitCode is the process exit code; -1 when the process was
		// killed before exiting on its own.
		ExitCode int `json:"exit_code"`
		// Stdout and Stderr hold the captured output.
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		// Duration is the observed wall-clock runtime.
		Duration time.Duration `json:"duration"`
	}

	// InvalidWorkdirError is returned when Spec.Dir does not exist or is
	// not a directory.
	InvalidWorkdirError struct {
		Dir string
	}

	// InvalidSpecError is returned for a structurally invalid Spec.
	InvalidSpecError struct {
		Reason string
	}

	// MissingScriptError is returned when a repository script that an
	// operation depends on is not present on disk.
	MissingScriptError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *InvalidWorkdirError) Error() string {
	return fmt.Sprintf("invalid working directory %q", e.Dir)
}

// Unwrap returns ErrInvalidWorkdir so callers can use errors.Is.
func (e *InvalidWorkdirError) Unwrap() error { return ErrInvalidWorkdir }

// Error implements the error interface.
func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid run spec: %s", e.Reason)
}

// Unwrap returns ErrInvalidSpec so callers can use errors.Is.
func (e *InvalidSpecError) Unwrap() error { return ErrInvalidSpec }

// Error implements the error interface.
func (e *MissingScriptError) Error() string {
	return fmt.Sprintf("script not found: %s", e.Path)
}

// Unwrap returns ErrMissingScript so callers can use errors.Is.
func (e *MissingScriptError) Unwrap() error { return ErrMissingScript }

// FindScript resolves name inside dir and verifies it exists. It returns the
// absolute script path or a MissingScriptError.
func FindScript(dir, name string) (string, error) {
	p := filepath.Join(dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", &MissingScriptError{Path: p}
	}
	return p, nil
}

// Succeeded reports whether the run ended with exit code zero.
func (r *Result) Succeeded() bool { return r.Status == StatusSuccess }

// Run executes spec and blocks until the child exits or the timeout fires.
// On timeout the entire process group is terminated, so no grandchild keeps
// running after a Timeout result; output captured so far is preserved.
func Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Command == "" {
		return nil, &InvalidSpecError{Reason: "command must not be empty"}
	}
	if spec.Timeout <= 0 {
		return nil, &InvalidSpecError{Reason: "timeout must be positive"}
	}
	if info, err := os.Stat(spec.Dir); err != nil || !info.IsDir() {
		return nil, &InvalidWorkdirError{Dir: spec.Dir}
	}

	ctx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = buildEnv(spec.ExtraEnv)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Platform-specific: place the child in its own process group and
	// arrange for the whole group to be killed on cancellation.
	configureProcAttr(cmd)

	started := time.Now()
	runErr := cmd.Run()
	result := &Result{
		Command:  renderCommand(spec),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(started),
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Status = StatusTimeout
		result.ExitCode = -1
	case runErr == nil:
		result.Status = StatusSuccess
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.Status = StatusFailure
			result.ExitCode = exitErr.ExitCode()
		} else {
			// The process never started (e.g. command not found).
			return nil, fmt.Errorf("failed to start %s: %w", spec.Command, runErr)
		}
	}
	return result, nil
}

// buildEnv assembles the child environment: allow-listed host variables plus
// explicit extras, extras winning on conflict.
func buildEnv(extra map[string]string) []string {
	env := make([]string, 0, len(envAllowlist)+len(extra))
	for _, key := range envAllowlist {
		if _, override := extra[key]; override {
			continue
		}
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+extra[key])
	}
	return env
}

func renderCommand(spec Spec) string {
	if len(spec.Args) == 0 {
		return spec.Command
	}
	return spec.Command + " " + strings.Join(spec.Args, " ")
}
