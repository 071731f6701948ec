package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qrdoc-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [paths...]",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can import,
decode, correct and export scanned pages.

Any paths given are imported before the server starts. By default, the
server communicates over stdio using JSON-RPC. Use --port to serve
streamable HTTP instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default)
  qrdoc mcp serve ~/scans

  # HTTP mode
  qrdoc mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "qrdoc": {
        "command": "/path/to/qrdoc",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringP("output", "o", "", "default directory for export_groups (default from settings)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	output, _ := cmd.Flags().GetString("output")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ports := &mcp.Ports{
		Pages:     pageService,
		Scan:      scanService,
		Grouping:  groupingService,
		Export:    exportService,
		OutputDir: resolveOutputDir(output),
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		// stdout belongs to the protocol in stdio mode.
		n, err := importPaths(ctx, cmd, args)
		if err != nil {
			return err
		}
		cmd.PrintErrf("Imported %s\n", pluralPages(n))
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
