package cmd

import (
	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints the full summary of a dataset.
var summaryCmd = &cobra.Command{
	Use:   "summary [dataset]",
	Short: "Show the period comparison headline and the sparkline of a dataset.",
	Long: `Summarize a query result with at least two time dimensions and one measure.

The finest time dimension drives the sparkline, the next coarser one drives the
comparison: the last period is compared with the one before it, e.g. this week
against last week.

Datasets are Looker-style JSON (fields.dimension_like, fields.measure_like, data)
or CSV with a header row. Reads stdin when no path or "-" is given.

Examples:
  # Summarize an exported query
  sparkline summary orders.json

  # Keep 30 points and show the change in absolute units
  sparkline summary orders.csv --points 30 --comparison absolute

  # A drop is good news for this measure
  sparkline summary tickets.json --positive-is-good no

  # Pipe from another tool
  cat orders.json | sparkline summary --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize dataset", err)
		}
	},
}
