package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
)

// currentCacheVersion defines the version of the cached summary shape.
const currentCacheVersion = 1

// cacheTTL bounds how long a cached summary is served.
const cacheTTL = 7 * 24 * time.Hour

// cachedSummarize returns the summary for the dataset, consulting the summary store first.
// The cache is keyed by the raw dataset bytes and the engine options.
func cachedSummarize(ds dataset.Dataset, raw []byte, opts schema.SummaryOptions, mgr contract.CacheManager) (dataset.Summary, bool, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetSummaryStore()
	}
	if store == nil {
		s, err := Summarize(ds, opts)
		return s, false, err
	}

	key := generateCacheKey(raw, opts)
	if s, ok := checkCacheHit(store, key); ok {
		return s, true, nil
	}

	s, err := computeAndStore(ds, opts, store, key)
	return s, false, err
}

// checkCacheHit attempts to retrieve and validate a cached summary.
func checkCacheHit(store contract.CacheStore, key string) (dataset.Summary, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return dataset.Summary{}, false
	}
	if time.Since(time.Unix(ts, 0)) > cacheTTL {
		return dataset.Summary{}, false
	}
	// Cells keep json.Number values, as they had before caching
	var s dataset.Summary
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return dataset.Summary{}, false
	}
	return s, true
}

// computeAndStore runs the engine and writes the result to the store.
// A failed write only costs the next run a recomputation.
func computeAndStore(ds dataset.Dataset, opts schema.SummaryOptions, store contract.CacheStore, key string) (dataset.Summary, error) {
	s, err := Summarize(ds, opts)
	if err != nil {
		return dataset.Summary{}, err
	}
	if data, err := json.Marshal(s); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache summary", err)
		}
	}
	return s, nil
}

// generateCacheKey hashes the dataset bytes together with every option that shapes the result.
func generateCacheKey(raw []byte, opts schema.SummaryOptions) string {
	h := sha256.New()
	_, _ = h.Write(raw)
	_, _ = fmt.Fprintf(h, "\x00%d:%s:%s:%t:%s:%s",
		opts.Points,
		opts.Measure,
		opts.ComparisonType,
		opts.PositiveIsGood,
		opts.Title,
		opts.MeasureLabel,
	)
	return fmt.Sprintf("%x", h.Sum(nil))
}
