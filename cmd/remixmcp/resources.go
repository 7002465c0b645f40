// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Night1099/toolkit-remix-mcp/internal/resources"
)

var (
	structureCmd = &cobra.Command{
		Use:   "structure",
		Short: "Show the repository layout reference",
		Long:  "Render the repo://structure resource to the terminal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderMarkdown(cmd, resources.StructureDoc)
		},
	}

	commandsCmd = &cobra.Command{
		Use:   "commands",
		Short: "Show the build command reference",
		Long:  "Render the repo://build_commands resource to the terminal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderMarkdown(cmd, resources.BuildCommandsDoc)
		},
	}
)

// renderMarkdown renders markdown content using glamour, falling back to the
// raw text when no renderer can be built (e.g. a dumb terminal).
func renderMarkdown(cmd *cobra.Command, content string) error {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}
	out, err := renderer.Render(content)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
