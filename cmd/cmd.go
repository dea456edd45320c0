// Package cmd defines the command-line interface for sparkline.
package cmd

import (
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	flags := rootCmd.PersistentFlags()
	flags.IntP("points", "n", contract.DefaultPoints, "Number of sparkline points to keep (0 = all)")
	flags.StringP("measure", "m", "", "Measure to summarize (defaults to the first measure)")
	flags.String("comparison", string(contract.DefaultComparison), "Headline change style: percentage or absolute")
	flags.String("positive-is-good", "", "Whether an increase is good news (yes/no/true/false/1/0, default yes)")
	flags.String("title", "", "Title shown above the summary")
	flags.String("measure-label", "", "Label shown for the measure (defaults to the measure label)")
	flags.String("format", string(schema.AutoFormat), "Dataset format: auto or json or csv")
	flags.String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	flags.String("output-file", "", "Optional path to write output to")
	flags.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	flags.Int("width", 0, "Terminal width override (0 = auto-detect)")
	flags.String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	flags.String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	flags.String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	flags.String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	flags.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	flags.String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	flags.String("log-level", contract.DefaultLogLevel, "Log level for the HTTP server: debug or info or warn or error")
	flags.String("profile", "", "Enable profiling and write profiles to files with this prefix")
	flags.String("config", "", "Path to config file")
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP server to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
