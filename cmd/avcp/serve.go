package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	avcpmcp "github.com/gorewood/avcp/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run avcp as a Model Context Protocol (MCP) server over stdio.

The tools are pure text transformations: they take document text and return
the updated text without reading or writing files.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "avcp": {
        "command": "avcp",
        "args": ["serve"]
      }
    }
  }

Available tools: merge_readme_block, insert_changelog_entry, render_readme_block`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := avcpmcp.NewServer(buildVersion())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
