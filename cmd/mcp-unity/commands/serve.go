package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/logging"
	"github.com/gfxblit/mcp-unity/internal/mcp"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dispatch tools as an MCP server (stdio transport)",
	Long: `Expose the dispatch tools over the Model Context Protocol on
stdin/stdout. Protocol frames own stdout; diagnostics go to stderr.

The server runs until stdin closes or it receives an interrupt.`,
	Example: `  # Run directly
  mcp-unity serve

  # Register with Claude Code
  claude mcp add mcp-unity-tools -- mcp-unity serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	ctx, stop := signal.NotifyContext(cmd.Context(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	server := mcp.NewServer("mcp-unity", version,
		newDispatcher(logger), logger, cmd.InOrStdin(), cmd.OutOrStdout())

	logger.Info("mcp server listening on stdio")
	return server.Run(ctx)
}
