package cmd

import (
	"github.com/huangsam/sparkline/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Sparkline MCP server",
	Long: `Launch an MCP server over stdio so AI agents can summarize datasets with standard tools.

Tools:
  summarize_dataset - headline comparison and sampled series
  classify_fields   - time dimension ranking
  downsample_series - uniform index sampling of a numeric series`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Never read a dataset from stdin here, it carries the protocol
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
