// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/depgraph"
)

type (
	// DependenciesTool answers dependency-closure queries for one extension.
	DependenciesTool struct {
		catalog *catalog.Catalog
	}

	dependenciesResponse struct {
		*depgraph.Resolution
		// BuildOrder is the topological order of the root plus its known
		// closure: each extension appears after its dependencies. Omitted
		// when the catalog-wide graph is cyclic.
		BuildOrder []string `json:"build_order,omitempty"`
	}
)

// NewDependenciesTool creates the get_extension_dependencies tool.
func NewDependenciesTool(c *catalog.Catalog) *DependenciesTool {
	return &DependenciesTool{catalog: c}
}

// Definition describes the tool to MCP clients.
func (t *DependenciesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_extension_dependencies",
		mcp.WithDescription("Resolve the dependency closure of an extension: direct and "+
			"transitive dependencies, dangling references, cycle detection, and a build order."),
		mcp.WithString("extension_name",
			mcp.Required(),
			mcp.Description("Name of the extension to resolve"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Traversal depth bound; 0 or omitted means unbounded"),
		),
	)
}

// Handle resolves the closure against a fresh scan. Dangling dependencies are
// reported in the missing set, never as an error; only an unknown root fails.
func (t *DependenciesTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("extension_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxDepth := req.GetInt("max_depth", 0)

	snap, err := t.catalog.Scan(catalog.ScanOptions{})
	if err != nil {
		return failResult(err)
	}

	resolution, err := depgraph.DependenciesOf(name, snap, maxDepth)
	if err != nil {
		return failResult(err)
	}

	return jsonResult(dependenciesResponse{
		Resolution: resolution,
		BuildOrder: closureBuildOrder(snap, resolution),
	})
}

// closureBuildOrder filters the catalog-wide build order down to the root and
// its known closure. Returns nil when the global graph has a cycle: there is
// no valid order to report then.
func closureBuildOrder(snap *catalog.Snapshot, res *depgraph.Resolution) []string {
	order, err := depgraph.BuildOrder(snap)
	if err != nil {
		return nil
	}
	closure := map[string]bool{res.Name: true}
	for _, dep := range res.Direct {
		closure[dep] = true
	}
	for _, dep := range res.Transitive {
		closure[dep] = true
	}
	var filtered []string
	for _, name := range order {
		if closure[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered
}
