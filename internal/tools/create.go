// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
	"github.com/Night1099/toolkit-remix-mcp/internal/scaffold"
)

type (
	// CreateExtensionTool scaffolds a new extension skeleton.
	CreateExtensionTool struct {
		catalog    *catalog.Catalog
		scaffolder *scaffold.Scaffolder
	}

	createResponse struct {
		Name string `json:"name"`
		Path string `json:"path"`
		// FilesCreated lists the created files relative to Path.
		FilesCreated []string `json:"files_created"`
	}
)

// NewCreateExtensionTool creates the create_extension_template tool.
func NewCreateExtensionTool(c *catalog.Catalog, s *scaffold.Scaffolder) *CreateExtensionTool {
	return &CreateExtensionTool{catalog: c, scaffolder: s}
}

// Definition describes the tool to MCP clients.
func (t *CreateExtensionTool) Definition() mcp.Tool {
	return mcp.NewTool("create_extension_template",
		mcp.WithDescription("Create a new extension skeleton: manifest, module stub, docs, and "+
			"optional test/UI stubs. Refuses to overwrite an existing extension."),
		mcp.WithString("extension_name",
			mcp.Required(),
			mcp.Description("Name of the new extension (e.g. 'lightspeed.myfeature')"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Extension category"),
			mcp.Enum("lightspeed", "flux"),
		),
		mcp.WithString("description",
			mcp.Description("Description seeded into the manifest"),
		),
		mcp.WithBoolean("include_tests",
			mcp.Description("Generate tests/unit and tests/e2e stubs (default true)"),
		),
		mcp.WithBoolean("include_ui",
			mcp.Description("Generate the ui/ module stub (default false)"),
		),
	)
}

// Handle validates against a fresh scan and applies the scaffold atomically.
// A second call with the same name fails with already_exists and leaves the
// filesystem untouched.
func (t *CreateExtensionTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("extension_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := t.catalog.Scan(catalog.ScanOptions{})
	if err != nil {
		return failResult(err)
	}

	plan, err := t.scaffolder.Create(scaffold.Options{
		Name:         name,
		Category:     manifest.Category(category),
		Description:  req.GetString("description", ""),
		IncludeTests: req.GetBool("include_tests", true),
		IncludeUI:    req.GetBool("include_ui", false),
	}, snap)
	if err != nil {
		return failResult(err)
	}

	return jsonResult(createResponse{
		Name:         plan.Name,
		Path:         plan.Path,
		FilesCreated: plan.Created,
	})
}
