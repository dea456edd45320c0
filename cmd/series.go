package cmd

import (
	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd prints the sampled fine grained series.
var seriesCmd = &cobra.Command{
	Use:   "series [dataset]",
	Short: "Show the fine grained series behind the sparkline.",
	Long: `Build the series over the finest time dimension and sample it down to --points.

Sampling picks points at a uniform stride and always keeps the first and last
points. Nothing is interpolated, so every value is a real total.

Examples:
  # Full series
  sparkline series orders.json

  # Sample to 12 points and write Parquet for a notebook
  sparkline series orders.json --points 12 --output parquet --output-file series.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build series", err)
		}
	},
}
