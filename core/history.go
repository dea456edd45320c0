package core

import (
	"context"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
)

// beginRun opens a history run and stores its ID in the returned context.
// Tracking failures never fail the summary itself.
func beginRun(ctx context.Context, history contract.HistoryStore, opts schema.SummaryOptions) context.Context {
	configParams := map[string]any{
		"points":           opts.Points,
		"measure":          opts.Measure,
		"comparison_type":  string(opts.ComparisonType),
		"positive_is_good": opts.PositiveIsGood,
	}
	runID, err := history.BeginRun(time.Now(), sourceFromContext(ctx, contract.StdinDatasetPath), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun records the outcome and the sampled points of the run in ctx.
func endRun(ctx context.Context, history contract.HistoryStore, s dataset.Summary) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	if err := history.EndRun(runID, time.Now(), schema.OutcomeFromSummary(s)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
		return
	}
	if len(s.Series) == 0 {
		return
	}
	if err := history.RecordPoints(runID, schema.PointRecordsFromSeries(runID, s.Series)); err != nil {
		contract.LogWarn("Failed to record sampled points", err)
	}
}
