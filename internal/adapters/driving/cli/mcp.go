package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdrive/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServePort int

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can retrieve
passages, ask questions and browse the local library.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  ragdrive mcp serve
  ragdrive mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "ragdrive": {
        "command": "/path/to/ragdrive",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpServePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Ask:       askService,
		Library:   libraryService,
		Sync:      syncService,
		RootID:    defaultRoot,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpServePort > 0 {
		addr := fmt.Sprintf(":%d", mcpServePort)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
