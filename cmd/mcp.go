package cmd

import (
	"github.com/devflow/devflow/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DevFlow MCP server",
	Long: `Launch an MCP server on stdio so AI agents can read productivity, streak,
burnout, archetype and report data through standard tools.

The configured --user is the default for every tool call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
