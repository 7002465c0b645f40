// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/search"
)

// SearchCodeTool runs bounded regular-expression searches over the
// repository tree.
type SearchCodeTool struct {
	engine *search.Engine
}

// NewSearchCodeTool creates the search_code tool.
func NewSearchCodeTool(e *search.Engine) *SearchCodeTool {
	return &SearchCodeTool{engine: e}
}

// Definition describes the tool to MCP clients.
func (t *SearchCodeTool) Definition() mcp.Tool {
	return mcp.NewTool("search_code",
		mcp.WithDescription("Search the repository for a regular expression. Results carry "+
			"surrounding context lines and are capped; truncated is set when a cap fires."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Go regular expression to search for"),
		),
		mcp.WithString("file_pattern",
			mcp.Description("Glob restricting which files are searched (e.g. '**/*.py')"),
		),
	)
}

// Handle validates the pattern before touching the filesystem, then walks the
// tree under the search timeout.
func (t *SearchCodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := t.engine.Search(ctx, search.Options{
		Pattern: query,
		Glob:    req.GetString("file_pattern", ""),
	})
	if err != nil {
		return failResult(err)
	}
	return jsonResult(report)
}
