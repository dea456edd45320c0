package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/sparkline/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summary engine over HTTP",
	Long: `Start a JSON HTTP API over the summary engine.

Endpoints:
  POST /v1/summary  - full summary
  POST /v1/series   - sampled series
  POST /v1/classify - time dimension ranking
  GET  /healthz     - cache and history connectivity

Request bodies carry the dataset inline, either as "dataset" (Looker-style JSON)
or "csv", next to optional overrides such as "points" and "comparison_type".
Flags set the defaults for every request.

Examples:
  sparkline serve --addr :9090 --points 30
  SPARKLINE_LOG_LEVEL=debug sparkline serve`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		logger, err := server.NewLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx, cfg, cacheManager, logger)
	},
}
