// Package core has the summary engine and the orchestration around it.
package core

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/internal/outwriter"
	"github.com/huangsam/sparkline/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// stdin is where datasets are read from when the path is "-".
var stdin io.Reader = os.Stdin

// ExecuteSummary prints the headline, the sparkline and the sampled series.
// It serves as the main entry point for the 'summary' command.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	s, err := summarizeFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(s, cfg, time.Since(start))
}

// ExecuteCompare prints the period comparison together with every coarse bucket.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	s, err := summarizeFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(s, cfg, time.Since(start))
}

// ExecuteSeries prints the fine grained series, sampled down to cfg.Points.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	s, err := summarizeFromConfig(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSeries(s, cfg, time.Since(start))
}

// ExecuteClassify prints how the time dimensions of a dataset were ranked.
// Classification is cheap, so neither the cache nor the history store is involved.
func ExecuteClassify(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ds, _, err := dataset.Load(cfg.DatasetPath, cfg.DatasetFormat, cfg.Measure, stdin)
	if err != nil {
		return err
	}
	cls, err := Classify(ds.Fields.Dimensions)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteClassification(cls, cfg)
}

// summarizeFromConfig loads the configured dataset and runs it through RunSummary.
func summarizeFromConfig(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (dataset.Summary, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Summary{}, err
	}
	ds, raw, err := dataset.Load(cfg.DatasetPath, cfg.DatasetFormat, cfg.Measure, stdin)
	if err != nil {
		return dataset.Summary{}, err
	}
	return RunSummary(WithSource(ctx, cfg.DatasetPath), ds, raw, cfg.SummaryOptions(), mgr)
}

// RunSummary summarizes one dataset with caching and history tracking.
// raw is the encoded dataset used for the cache key; mgr may be nil.
func RunSummary(ctx context.Context, ds dataset.Dataset, raw []byte, opts schema.SummaryOptions, mgr contract.CacheManager) (dataset.Summary, error) {
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}

	// --- 0. Validate, so rejected datasets never open a run ---
	if _, _, err := validate(ds.Fields, opts); err != nil {
		return dataset.Summary{}, err
	}

	// --- 1. Begin Run Tracking (if configured) ---
	if history != nil {
		ctx = beginRun(ctx, history, opts)
	}

	// --- 2. Summarize (with caching) ---
	s, _, err := cachedSummarize(ds, raw, opts, mgr)
	if err != nil {
		return dataset.Summary{}, err
	}

	// --- 3. End Run Tracking ---
	if history != nil {
		endRun(ctx, history, s)
	}
	return s, nil
}
