// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the server configuration. The resulting
// Config is passed explicitly to every component at construction so each
// operation stays independently testable against a synthetic repository root.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "remix-mcp"
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. REMIX_MCP_TIMEOUTS_BUILD).
	EnvPrefix = "REMIX_MCP"

	// ExtensionsDirName is the repository-relative directory that holds
	// extension units.
	ExtensionsDirName = "source/extensions"
)

type (
	// Config holds the fully resolved server configuration. The repository
	// root is absolute and validated; every filesystem access performed by
	// the core must stay confined to it.
	Config struct {
		// RepoRoot is the absolute path of the repository under management.
		RepoRoot string
		// Timeouts are the per-operation process/scan bounds.
		Timeouts Timeouts
		// Search holds the code search caps.
		Search SearchLimits
		// Verbose enables debug-level logging.
		Verbose bool
	}

	// LoadOptions controls configuration loading.
	LoadOptions struct {
		// RepoRoot is the repository root; empty means the current directory.
		RepoRoot string
		// ConfigFilePath is an optional TOML config file. When empty, no
		// config file is consulted (env and defaults only).
		ConfigFilePath string
		// Verbose enables debug-level logging.
		Verbose bool
	}
)

// Load resolves the configuration from defaults, the optional config file,
// and REMIX_MCP_* environment variables (in increasing precedence), then
// validates the repository root layout.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultTimeouts()
	v.SetDefault("timeouts.build", defaults.Build)
	v.SetDefault("timeouts.test", defaults.Test)
	v.SetDefault("timeouts.format", defaults.Format)
	v.SetDefault("timeouts.lint", defaults.Lint)
	v.SetDefault("timeouts.search", defaults.Search)

	limits := DefaultSearchLimits()
	v.SetDefault("search.max_matches", limits.MaxMatches)
	v.SetDefault("search.max_matches_per_file", limits.MaxMatchesPerFile)
	v.SetDefault("search.context_lines", limits.ContextLines)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		v.SetConfigFile(opts.ConfigFilePath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFilePath, err)
		}
	}

	root := opts.RepoRoot
	if root == "" {
		root = v.GetString("repo_root")
	}
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	cfg := &Config{
		RepoRoot: absRoot,
		Timeouts: Timeouts{
			Build:  v.GetDuration("timeouts.build"),
			Test:   v.GetDuration("timeouts.test"),
			Format: v.GetDuration("timeouts.format"),
			Lint:   v.GetDuration("timeouts.lint"),
			Search: v.GetDuration("timeouts.search"),
		},
		Search: SearchLimits{
			MaxMatches:        v.GetInt("search.max_matches"),
			MaxMatchesPerFile: v.GetInt("search.max_matches_per_file"),
			ContextLines:      v.GetInt("search.context_lines"),
		},
		Verbose: opts.Verbose,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the repository root layout and the numeric bounds.
func (c *Config) Validate() error {
	info, err := os.Stat(c.RepoRoot)
	if err != nil {
		return &InvalidRepoRootError{Path: c.RepoRoot, Reason: "directory does not exist"}
	}
	if !info.IsDir() {
		return &InvalidRepoRootError{Path: c.RepoRoot, Reason: "not a directory"}
	}
	if _, err := os.Stat(c.ExtensionsRoot()); err != nil {
		return &InvalidRepoRootError{
			Path:   c.RepoRoot,
			Reason: fmt.Sprintf("expected to find %q directory", ExtensionsDirName),
		}
	}
	if err := c.Timeouts.Validate(); err != nil {
		return err
	}
	return c.Search.Validate()
}

// ExtensionsRoot returns the absolute path of the extensions directory.
func (c *Config) ExtensionsRoot() string {
	return filepath.Join(c.RepoRoot, filepath.FromSlash(ExtensionsDirName))
}

// WithinRoot resolves rel against the repository root and rejects any path
// that escapes it. rel may be absolute as long as it stays inside the root.
// The returned path is absolute and cleaned.
func (c *Config) WithinRoot(rel string) (string, error) {
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.RepoRoot, p)
	}
	p = filepath.Clean(p)

	relToRoot, err := filepath.Rel(c.RepoRoot, p)
	if err != nil {
		return "", &PathOutsideRootError{Path: rel}
	}
	if relToRoot == ".." || strings.HasPrefix(relToRoot, ".."+string(filepath.Separator)) {
		return "", &PathOutsideRootError{Path: rel}
	}
	return p, nil
}

// TimeoutFor returns the configured bound for a named operation kind.
// Unknown kinds fall back to the search timeout, the tightest bound.
func (c *Config) TimeoutFor(kind string) time.Duration {
	switch kind {
	case "build":
		return c.Timeouts.Build
	case "test":
		return c.Timeouts.Test
	case "format":
		return c.Timeouts.Format
	case "lint":
		return c.Timeouts.Lint
	default:
		return c.Timeouts.Search
	}
}
