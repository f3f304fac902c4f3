package main

import (
	"devmap/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout. The server
exposes the aggregated developer domain summaries and the knowledge base
chat as MCP tools for use from editors and assistants.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return mcp.StartMCPServer(cmd.Context(), a.chat, a.summaries)
}
