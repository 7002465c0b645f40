// SPDX-License-Identifier: MPL-2.0

// Package resources serves the static repository documentation exposed over
// MCP: the directory conventions and the recognized build commands. Both are
// fixed markdown documents; nothing here touches the filesystem.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// StructureURI identifies the repository layout resource.
	StructureURI = "repo://structure"
	// BuildCommandsURI identifies the build commands resource.
	BuildCommandsURI = "repo://build_commands"

	markdownMIME = "text/markdown"
)

// StructureDoc describes the recognized directory conventions.
const StructureDoc = `# Repository Structure

## Key Directories
- ` + "`source/extensions/`" + ` - Extension implementations (Lightspeed & Flux)
- ` + "`source/apps/`" + ` - Application configurations and entry points
- ` + "`docs/`" + ` - User documentation and guides
- ` + "`tools/`" + ` - Build and development tools

## Extension Layout
Every extension is a directory holding a ` + "`config/extension.toml`" + ` manifest.
Conventional subdirectories:
- ` + "`tests/`" + ` - unit and e2e tests (drives the has_tests flag)
- ` + "`ui/`" + ` - UI module (drives the has_ui flag)
- ` + "`docs/`" + ` - README and CHANGELOG

## Extension Categories
- **Lightspeed** (` + "`lightspeed.*`" + `) - RTX Remix specific functionality
- **Flux** (` + "`omni.flux.*`" + `) - Generic reusable components

The category is derived from the extension's location in the tree, not from
manifest data. When nested markers conflict, the innermost one wins.
`

// BuildCommandsDoc describes the external commands the server drives.
const BuildCommandsDoc = `# Build Commands

## Core Commands
- ` + "`./build.sh -r`" + ` - Build release version (run_build, 300s bound)
- ` + "`./build.sh -d`" + ` - Build debug version
- ` + "`./repo.sh test`" + ` - Run all tests (run_tests, 600s bound)
- ` + "`./format_code.sh`" + ` - Format code (format_code, 120s bound)
- ` + "`./lint_code.sh`" + ` - Lint code (lint_code, 120s bound)

## Per-Extension Testing
- ` + "`./_build/<platform>/release/tests-<extension>.sh`" + ` - Test one extension
- Unit/e2e selection appends a test-name filter flag

All commands run with their working directory pinned to the repository root,
a minimal allow-listed environment, and a hard timeout that kills the whole
process group. A nonzero exit or timeout is reported as a structured result,
never as a server error.
`

// Structure returns the repository layout resource definition.
func Structure() mcp.Resource {
	return mcp.NewResource(StructureURI, "Repository Structure",
		mcp.WithResourceDescription("High-level repository layout and extension conventions"),
		mcp.WithMIMEType(markdownMIME),
	)
}

// HandleStructure serves the repository layout document.
func HandleStructure(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: StructureURI, MIMEType: markdownMIME, Text: StructureDoc},
	}, nil
}

// BuildCommands returns the build commands resource definition.
func BuildCommands() mcp.Resource {
	return mcp.NewResource(BuildCommandsURI, "Build Commands",
		mcp.WithResourceDescription("Recognized build, test, format and lint commands"),
		mcp.WithMIMEType(markdownMIME),
	)
}

// HandleBuildCommands serves the build commands document.
func HandleBuildCommands(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: BuildCommandsURI, MIMEType: markdownMIME, Text: BuildCommandsDoc},
	}, nil
}
