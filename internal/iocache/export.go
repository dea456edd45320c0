package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/parquet"
)

// ExportHistory writes all runs and points of the store to Parquet files
// named after outputFile, and reports progress to w.
func ExportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is not enabled. Set --history-backend to export runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total points: %d\n", status.TotalPoints)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	points, err := store.GetAllPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve points: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	pointsFile := outputFile + ".points.parquet"
	parquetPoints := parquet.ConvertPointRecords(points)
	if err := parquet.WritePointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d points to: %s\n", len(parquetPoints), pointsFile)

	return nil
}
