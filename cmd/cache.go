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

// storeBackend reads a backend and its connection string from viper.
// An empty backend means the store is disabled.
func storeBackend(backendKey, connKey string) (schema.DatabaseBackend, string, error) {
	connStr := viper.GetString(connKey)
	raw := viper.GetString(backendKey)
	if raw == "" {
		return schema.NoneBackend, connStr, nil
	}
	backend, err := contract.ParseDatabaseBackend(raw)
	if err != nil {
		return "", "", err
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheSetup loads the minimal configuration needed for cache operations.
// No dataset is read and the history store stays closed.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := storeBackend("cache-backend", "cache-db-connect")
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the summary cache",
	Long: `Manage the cache of computed summaries.

A summary is keyed by a hash of the dataset bytes and the options that shape the
result, so re-running the same query export with the same flags skips the engine.
Entries expire after seven days.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached summaries

Examples:
  sparkline cache status
  SPARKLINE_CACHE_BACKEND=mysql SPARKLINE_CACHE_DB_CONNECT="..." sparkline cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached summaries",
	Long: `Delete every cached summary from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the connection state, the number of entries, the newest and
oldest entry timestamps and the estimated table size.`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSummaryStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
