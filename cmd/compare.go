package cmd

import (
	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd prints the comparison of the last two coarse periods.
var compareCmd = &cobra.Command{
	Use:   "compare [dataset]",
	Short: "Compare the last two periods of a dataset.",
	Long: `Total the measure per coarse period and compare the last period with the one before it.

Every period bucket is listed with its share of the grand total, so the
compared periods can be read in context.

Examples:
  # Weekly comparison table
  sparkline compare orders.json

  # Export the period totals
  sparkline compare orders.json --output csv --output-file periods.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare periods", err)
		}
	},
}
