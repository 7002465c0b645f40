// SPDX-License-Identifier: MPL-2.0

// Package mcpserver is the composition root: it wires the repository
// services into an MCP server speaking the stdio transport.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/resources"
	"github.com/Night1099/toolkit-remix-mcp/internal/scaffold"
	"github.com/Night1099/toolkit-remix-mcp/internal/search"
	"github.com/Night1099/toolkit-remix-mcp/internal/tools"
)

// New builds the MCP server with every tool and resource registered. The
// configuration must already be validated.
func New(cfg *config.Config, version string) *server.MCPServer {
	cat := catalog.New(cfg)
	engine := search.New(cfg)
	scaffolder := scaffold.New(cfg)

	s := server.NewMCPServer(
		config.AppName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	listTool := tools.NewListExtensionsTool(cat)
	s.AddTool(listTool.Definition(), listTool.Handle)

	analyzeTool := tools.NewAnalyzeExtensionTool(cat)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	depsTool := tools.NewDependenciesTool(cat)
	s.AddTool(depsTool.Definition(), depsTool.Handle)

	createTool := tools.NewCreateExtensionTool(cat, scaffolder)
	s.AddTool(createTool.Definition(), createTool.Handle)

	buildTool := tools.NewRunBuildTool(cfg)
	s.AddTool(buildTool.Definition(), buildTool.Handle)

	testsTool := tools.NewRunTestsTool(cfg, cat)
	s.AddTool(testsTool.Definition(), testsTool.Handle)

	formatTool := tools.NewFormatCodeTool(cfg)
	s.AddTool(formatTool.Definition(), formatTool.Handle)

	lintTool := tools.NewLintCodeTool(cfg)
	s.AddTool(lintTool.Definition(), lintTool.Handle)

	searchTool := tools.NewSearchCodeTool(engine)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	s.AddResource(resources.Structure(), resources.HandleStructure)
	s.AddResource(resources.BuildCommands(), resources.HandleBuildCommands)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
// Stdout carries the protocol, so nothing else may write to it.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func serverInstructions() string {
	return `Repository intelligence for an extension-based toolkit.

Start with list_extensions to discover what exists, analyze_extension and
get_extension_dependencies to understand one extension, and search_code to
find usages. create_extension_template scaffolds a new extension without
overwriting anything. run_build, run_tests, format_code, and lint_code drive
the repository scripts; their outcomes are structured results, and a nonzero
exit is not a tool error. Read repo://structure and repo://build_commands
for repository layout and command reference.`
}
