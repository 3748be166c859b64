package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tier4/mapvalidator/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the map validation MCP server",
	Long:  `Launch an MCP server that allows AI agents to validate maps and look up checks and issue codes via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so only output settings are processed here
		if err := outputSetup(cmd, args); err != nil {
			return err
		}
		return initHistory()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
