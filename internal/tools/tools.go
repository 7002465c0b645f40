// SPDX-License-Identifier: MPL-2.0

// Package tools implements the MCP tool surface over the core services. Each
// tool lives in its own file and exposes a Definition plus a Handle method;
// the server package wires them together. Hard failures become structured
// tool errors (kind-prefixed), never protocol errors; process outcomes and
// soft errors ride inside successful results.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
	"github.com/Night1099/toolkit-remix-mcp/internal/issue"
)

// jsonResult marshals v into an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failResult converts a core error into a kind-prefixed tool error.
func failResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(issue.FromError(err).String()), nil
}

// softErrors flattens snapshot parse failures for inclusion in results.
func softErrors(snap *catalog.Snapshot) []string {
	if len(snap.Failures) == 0 {
		return nil
	}
	out := make([]string, len(snap.Failures))
	for i, f := range snap.Failures {
		out[i] = f.Err.Error()
	}
	return out
}
