//go:build basic

// Package integration contains end-to-end tests for the sparkline binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weeklyTotals sums the fixture by week without going through the engine.
func weeklyTotals(t *testing.T, path string) (order []string, totals map[string]float64) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	totals = make(map[string]float64)
	for _, rec := range records[1:] {
		v, err := strconv.ParseFloat(rec[2], 64)
		require.NoError(t, err)
		if _, seen := totals[rec[0]]; !seen {
			order = append(order, rec[0])
		}
		totals[rec[0]] += v
	}
	return order, totals
}

// TestSummaryVerification checks the CLI headline against totals computed straight from the file.
func TestSummaryVerification(t *testing.T) {
	const fixture = "testdata/weekly.csv"
	order, totals := weeklyTotals(t, fixture)
	require.GreaterOrEqual(t, len(order), 2)

	out, err := runSparkline(t, []string{"SPARKLINE_CACHE_BACKEND=none"}, "summary", fixture, "--output", "json")
	require.NoError(t, err)

	var summary struct {
		Comparison struct {
			CurrentKey    string  `json:"current_key"`
			PreviousKey   string  `json:"previous_key"`
			CurrentTotal  float64 `json:"current_total"`
			PreviousTotal float64 `json:"previous_total"`
			Delta         float64 `json:"delta"`
		} `json:"comparison"`
		TotalPoints int `json:"total_points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))

	current, previous := order[len(order)-1], order[len(order)-2]
	assert.Equal(t, current, summary.Comparison.CurrentKey)
	assert.Equal(t, previous, summary.Comparison.PreviousKey)
	assert.InDelta(t, totals[current], summary.Comparison.CurrentTotal, 1e-9)
	assert.InDelta(t, totals[previous], summary.Comparison.PreviousTotal, 1e-9)
	assert.InDelta(t, totals[current]-totals[previous], summary.Comparison.Delta, 1e-9)
	assert.Equal(t, 7, summary.TotalPoints)
}

// TestSeriesSamplingVerification checks that sampling keeps both ends of the series.
func TestSeriesSamplingVerification(t *testing.T) {
	out, err := runSparkline(t, []string{"SPARKLINE_CACHE_BACKEND=none"}, "series", "testdata/weekly.csv", "--points", "3", "--output", "json")
	require.NoError(t, err)

	var series struct {
		TotalPoints int `json:"total_points"`
		Series      []struct {
			Key   string  `json:"key"`
			Value float64 `json:"value"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &series))
	require.Len(t, series.Series, 3)
	assert.Equal(t, "2024-01-01", series.Series[0].Key)
	assert.Equal(t, "2024-01-18", series.Series[2].Key)
	assert.Equal(t, 7, series.TotalPoints)
}
