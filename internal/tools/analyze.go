// SPDX-License-Identifier: MPL-2.0

package tools

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/depgraph"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

type (
	// AnalyzeExtensionTool reports one extension in detail: its descriptor,
	// dependency summary, directory structure, and test files.
	AnalyzeExtensionTool struct {
		catalog *catalog.Catalog
	}

	analyzeResponse struct {
		extensionSummary
		// Structure maps top-level entry names to "file" or "directory".
		Structure map[string]string `json:"structure"`
		// Dependencies is the resolved dependency view.
		Dependencies *depgraph.Resolution `json:"dependencies"`
		// TestFiles lists test sources relative to the tests/ directory.
		TestFiles []string `json:"test_files,omitempty"`
	}
)

// NewAnalyzeExtensionTool creates the analyze_extension tool.
func NewAnalyzeExtensionTool(c *catalog.Catalog) *AnalyzeExtensionTool {
	return &AnalyzeExtensionTool{catalog: c}
}

// Definition describes the tool to MCP clients.
func (t *AnalyzeExtensionTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_extension",
		mcp.WithDescription("Analyze a specific extension: metadata, directory structure, "+
			"dependency summary, and test files."),
		mcp.WithString("extension_name",
			mcp.Required(),
			mcp.Description("Name of the extension to analyze"),
		),
	)
}

// Handle resolves the extension against a fresh scan.
func (t *AnalyzeExtensionTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("extension_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := t.catalog.Scan(catalog.ScanOptions{})
	if err != nil {
		return failResult(err)
	}
	desc := snap.Get(name)
	if desc == nil {
		return failResult(&depgraph.UnknownExtensionError{Name: name})
	}

	resolution, err := depgraph.DependenciesOf(name, snap, 0)
	if err != nil {
		return failResult(err)
	}

	return jsonResult(analyzeResponse{
		extensionSummary: summarize(desc),
		Structure:        topLevelStructure(desc.Path),
		Dependencies:     resolution,
		TestFiles:        testFiles(desc.Path),
	})
}

// topLevelStructure maps the immediate children of the extension directory.
func topLevelStructure(extDir string) map[string]string {
	entries, err := os.ReadDir(extDir)
	if err != nil {
		return map[string]string{}
	}
	structure := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			structure[entry.Name()] = "directory"
		} else {
			structure[entry.Name()] = "file"
		}
	}
	return structure
}

// testFiles lists Python test sources under tests/, relative to it.
func testFiles(extDir string) []string {
	testsDir := filepath.Join(extDir, manifest.TestsDirName)
	var files []string
	_ = filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil //nolint:nilerr // missing tests dir is not an error
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		if rel, relErr := filepath.Rel(testsDir, path); relErr == nil {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(files)
	return files
}
