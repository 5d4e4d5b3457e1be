package cmd

import (
	"github.com/reusabilityapi/reusability/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the reusability MCP server",
	Long: `Launch an MCP server on stdio that allows AI agents to query reusability indices via standard tools.

Tools take the repository URL, commit SHA and file path as arguments; all other
options (metrics provider, cache, run history) come from flags, env and config.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
