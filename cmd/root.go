// Package cmd wires the CLI surface. The root command runs the MCP server
// on stdio; version prints build information.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cdash-mcp",
	Short: "MCP server exposing CDash dashboards as tools",
	Long: `cdash-mcp is a Model Context Protocol server for CDash CI dashboards.

It exposes read-only tools for dashboards, builds, tests, coverage and
dynamic analysis, speaking MCP over stdio. Point it at a CDash instance
with the CDASH_URL environment variable (and CDASH_TOKEN for protected
projects), then register it with any MCP-capable client.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
