package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/iocache"
	"github.com/huangsam/sparkline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads the minimal configuration needed for history operations.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackend("history-backend", "history-db-connect")
	if err != nil {
		return err
	}
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup resolves the history backend without opening the store,
// so migrations can run against a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackend("history-backend", "history-db-connect")
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the run history and its exports",
	Long: `Manage the history of summary runs.

When --history-backend is set, every summary stores:
- Run metadata (source, options, timestamps, duration)
- The headline outcome (periods, totals, change)
- The sampled series points

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and points to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  sparkline history status --history-backend sqlite
  sparkline history export --history-backend sqlite --output-file history.parquet`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and points",
	Long: `Delete every stored run and series point.

WARNING: This action cannot be undone. Consider exporting first.`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	Long:    `Show the backend, the connection state, the number of runs and points, and the newest and oldest run timestamps.`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports the run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and points to Parquet",
	Long: `Export the stored runs and series points as Parquet files for DuckDB, pandas or BI tools.

Requires: --output-file parameter

Examples:
  sparkline history export --history-backend sqlite --output-file history.parquet
  duckdb -c "SELECT * FROM read_parquet('history.parquet/runs.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(iocache.Manager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  sparkline history migrate --history-backend sqlite
  sparkline history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("target-version"), os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
