// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for remix-mcp.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Night1099/toolkit-remix-mcp/internal/config"
	"github.com/Night1099/toolkit-remix-mcp/internal/mcpserver"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// repoPath points at the repository under management
	repoPath string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "remix-mcp",
		Short: "Repository intelligence MCP server for extension-based toolkits",
		Long: TitleStyle.Render("remix-mcp") + SubtitleStyle.Render(" - repository intelligence over MCP") + `

remix-mcp serves extension catalog queries, dependency analysis, bounded
code search, extension scaffolding, and build/test orchestration to MCP
clients over stdio.

Point it at a repository whose extensions live under source/extensions
and connect an MCP client to its stdin/stdout.

` + SubtitleStyle.Render("Examples:") + `
  remix-mcp --repo-path ~/src/toolkit     Serve the given repository
  remix-mcp structure                     Show the repository layout reference
  remix-mcp commands                      Show the build command reference`,
		RunE: runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML; env and defaults otherwise)")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo-path", "", "repository root (default is the current directory)")

	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(commandsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// runServe loads the configuration and serves MCP on stdin/stdout. All
// logging goes to stderr; stdout belongs to the protocol.
func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Load(config.LoadOptions{
		RepoRoot:       repoPath,
		ConfigFilePath: cfgFile,
		Verbose:        verbose,
	})
	if err != nil {
		return err
	}

	logger.Info("serving", "repo", cfg.RepoRoot, "version", Version)
	s := mcpserver.New(cfg, Version)
	if err := mcpserver.Serve(s); err != nil {
		logger.Error("server stopped", "err", err)
		return err
	}
	return nil
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          config.AppName,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
