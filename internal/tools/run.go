// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/depgraph"
	"github.com/Night1099/toolkit-remix-mcp/internal/runner"
)

const (
	buildScript  = "build.sh"
	repoScript   = "repo.sh"
	formatScript = "format_code.sh"
	lintScript   = "lint_code.sh"
)

type (
	// RunBuildTool drives the repository build script.
	RunBuildTool struct {
		cfg *config.Config
	}

	// RunTestsTool drives the repository or per-extension test scripts.
	RunTestsTool struct {
		cfg     *config.Config
		catalog *catalog.Catalog
	}

	// FormatCodeTool drives the repository formatter.
	FormatCodeTool struct {
		cfg *config.Config
	}

	// LintCodeTool drives the repository linter.
	LintCodeTool struct {
		cfg *config.Config
	}

	runResponse struct {
		*runner.Result
		Succeeded bool `json:"succeeded"`
	}
)

// NewRunBuildTool creates the run_build tool.
func NewRunBuildTool(cfg *config.Config) *RunBuildTool {
	return &RunBuildTool{cfg: cfg}
}

// NewRunTestsTool creates the run_tests tool.
func NewRunTestsTool(cfg *config.Config, c *catalog.Catalog) *RunTestsTool {
	return &RunTestsTool{cfg: cfg, catalog: c}
}

// NewFormatCodeTool creates the format_code tool.
func NewFormatCodeTool(cfg *config.Config) *FormatCodeTool {
	return &FormatCodeTool{cfg: cfg}
}

// NewLintCodeTool creates the lint_code tool.
func NewLintCodeTool(cfg *config.Config) *LintCodeTool {
	return &LintCodeTool{cfg: cfg}
}

// Definition describes the tool to MCP clients.
func (t *RunBuildTool) Definition() mcp.Tool {
	return mcp.NewTool("run_build",
		mcp.WithDescription("Run the repository build script. A nonzero exit or a timeout is "+
			"reported as a structured result, not an error."),
		mcp.WithString("config",
			mcp.Description("Build configuration (default release)"),
			mcp.Enum("release", "debug"),
		),
	)
}

// Handle runs ./build.sh -r or ./build.sh -d from the repository root.
func (t *RunBuildTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flag := "-r"
	if req.GetString("config", "release") == "debug" {
		flag = "-d"
	}

	script, err := runner.FindScript(t.cfg.RepoRoot, buildScript)
	if err != nil {
		return failResult(err)
	}
	return runScript(ctx, runner.Spec{
		Command: script,
		Args:    []string{flag},
		Dir:     t.cfg.RepoRoot,
		Timeout: t.cfg.TimeoutFor("build"),
	})
}

// Definition describes the tool to MCP clients.
func (t *RunTestsTool) Definition() mcp.Tool {
	return mcp.NewTool("run_tests",
		mcp.WithDescription("Run the whole test suite, or one extension's tests via its generated "+
			"test script. Per-extension scripts only exist after a build."),
		mcp.WithString("extension_name",
			mcp.Description("Specific extension to test; omit to run the whole suite"),
		),
		mcp.WithString("test_type",
			mcp.Description("Subset of an extension's tests to run (default all)"),
			mcp.Enum("unit", "e2e", "all"),
		),
	)
}

// Handle resolves either the per-extension test script under
// _build/<platform>/release/ or ./repo.sh test for the whole repository.
func (t *RunTestsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("extension_name", "")
	if name == "" {
		script, err := runner.FindScript(t.cfg.RepoRoot, repoScript)
		if err != nil {
			return failResult(err)
		}
		return runScript(ctx, runner.Spec{
			Command: script,
			Args:    []string{"test"},
			Dir:     t.cfg.RepoRoot,
			Timeout: t.cfg.TimeoutFor("test"),
		})
	}

	snap, err := t.catalog.Scan(catalog.ScanOptions{})
	if err != nil {
		return failResult(err)
	}
	if !snap.Has(name) {
		return failResult(&depgraph.UnknownExtensionError{Name: name})
	}

	scriptDir := filepath.Join(t.cfg.RepoRoot, "_build", platformDir(), "release")
	script, err := runner.FindScript(scriptDir, "tests-"+name+".sh")
	if err != nil {
		return failResult(err)
	}

	var args []string
	if kind := req.GetString("test_type", "all"); kind == "unit" || kind == "e2e" {
		args = append(args, fmt.Sprintf("--/exts/omni.kit.test/runTestsFilter=%s.*.tests.%s.*", name, kind))
	}
	return runScript(ctx, runner.Spec{
		Command: script,
		Args:    args,
		Dir:     t.cfg.RepoRoot,
		Timeout: t.cfg.TimeoutFor("test"),
	})
}

// Definition describes the tool to MCP clients.
func (t *FormatCodeTool) Definition() mcp.Tool {
	return mcp.NewTool("format_code",
		mcp.WithDescription("Run the repository code formatter."),
		mcp.WithString("target",
			mcp.Description("Path to format, relative to the repository root; omit for everything"),
		),
	)
}

// Handle runs ./format_code.sh, optionally scoped to one confined path.
func (t *FormatCodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runScoped(ctx, t.cfg, formatScript, "format", req.GetString("target", ""))
}

// Definition describes the tool to MCP clients.
func (t *LintCodeTool) Definition() mcp.Tool {
	return mcp.NewTool("lint_code",
		mcp.WithDescription("Run the repository linter."),
		mcp.WithString("target",
			mcp.Description("Path to lint, relative to the repository root; omit for everything"),
		),
	)
}

// Handle runs ./lint_code.sh, optionally scoped to one confined path.
func (t *LintCodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return runScoped(ctx, t.cfg, lintScript, "lint", req.GetString("target", ""))
}

// runScoped runs a repo-root script with an optional target argument. The
// target must stay inside the repository root.
func runScoped(ctx context.Context, cfg *config.Config, scriptName, kind, target string) (*mcp.CallToolResult, error) {
	script, err := runner.FindScript(cfg.RepoRoot, scriptName)
	if err != nil {
		return failResult(err)
	}
	var args []string
	if target != "" {
		resolved, err := cfg.WithinRoot(target)
		if err != nil {
			return failResult(err)
		}
		args = append(args, resolved)
	}
	return runScript(ctx, runner.Spec{
		Command: script,
		Args:    args,
		Dir:     cfg.RepoRoot,
		Timeout: cfg.TimeoutFor(kind),
	})
}

func runScript(ctx context.Context, spec runner.Spec) (*mcp.CallToolResult, error) {
	res, err := runner.Run(ctx, spec)
	if err != nil {
		return failResult(err)
	}
	return jsonResult(runResponse{Result: res, Succeeded: res.Succeeded()})
}

// platformDir mirrors the build system's output directory naming.
func platformDir() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	return runtime.GOOS + "-" + arch
}
