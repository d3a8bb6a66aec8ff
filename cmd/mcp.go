package cmd

import (
	"github.com/gihwan-dev/codehealth/internal/iocache"
	"github.com/gihwan-dev/codehealth/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [project-root]",
	Short: "Start the codehealth MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents collect metrics and build scorecards via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, iocache.Manager.GetHistoryStore())
	},
}
