package cmd

import (
	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd prints how the time dimensions were ranked.
var classifyCmd = &cobra.Command{
	Use:   "classify [dataset]",
	Short: "Show which time dimensions drive the series and the comparison.",
	Long: `Rank every time-like dimension of a dataset by granularity, finest first.

The unit is read from the field name (year, quarter, month, week, day, hour,
minute, second) and falls back to the declared type.

Examples:
  sparkline classify orders.json
  sparkline classify orders.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClassify(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot classify dataset", err)
		}
	},
}
