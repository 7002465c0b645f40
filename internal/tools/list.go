// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

type (
	// ListExtensionsTool lists the extensions discovered in the repository.
	ListExtensionsTool struct {
		catalog *catalog.Catalog
	}

	// extensionSummary is the per-extension shape returned by the tool.
	extensionSummary struct {
		Name        string            `json:"name"`
		Path        string            `json:"path"`
		Category    manifest.Category `json:"category"`
		Version     string            `json:"version,omitempty"`
		Description string            `json:"description,omitempty"`
		HasTests    bool              `json:"has_tests"`
		HasUI       bool              `json:"has_ui"`
	}

	listExtensionsResponse struct {
		Extensions []extensionSummary `json:"extensions"`
		Count      int                `json:"count"`
		SoftErrors []string           `json:"soft_errors,omitempty"`
	}
)

// NewListExtensionsTool creates the list_extensions tool.
func NewListExtensionsTool(c *catalog.Catalog) *ListExtensionsTool {
	return &ListExtensionsTool{catalog: c}
}

// Definition describes the tool to MCP clients.
func (t *ListExtensionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_extensions",
		mcp.WithDescription("List all extensions in the repository, sorted by name. "+
			"Optionally filter by category or name substring."),
		mcp.WithString("category",
			mcp.Description("Filter by category"),
			mcp.Enum("lightspeed", "flux", "other"),
		),
		mcp.WithString("name",
			mcp.Description("Case-insensitive substring filter on the extension name"),
		),
	)
}

// Handle runs a fresh catalog scan and returns the filtered summaries.
// An unrecognized category yields an empty list, not an error.
func (t *ListExtensionsTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := t.catalog.Scan(catalog.ScanOptions{
		Category:     req.GetString("category", ""),
		NameContains: req.GetString("name", ""),
	})
	if err != nil {
		return failResult(err)
	}

	resp := listExtensionsResponse{
		Extensions: make([]extensionSummary, 0, len(snap.Descriptors)),
		SoftErrors: softErrors(snap),
	}
	for _, d := range snap.Descriptors {
		resp.Extensions = append(resp.Extensions, summarize(d))
	}
	resp.Count = len(resp.Extensions)
	return jsonResult(resp)
}

func summarize(d *manifest.Descriptor) extensionSummary {
	return extensionSummary{
		Name:        d.Name,
		Path:        d.Path,
		Category:    d.Category,
		Version:     d.Version,
		Description: d.Description,
		HasTests:    d.HasTests,
		HasUI:       d.HasUI,
	}
}
