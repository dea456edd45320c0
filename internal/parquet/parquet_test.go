package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sparkline/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "start_time", "end_time", "run_duration_ms", "source", "measure",
		"fine_dimension", "coarse_dimension", "period_name", "current_total", "previous_total",
		"delta", "delta_percent", "total_points", "sampled_points", "config_params",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestPointStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Point))
	for _, colName := range []string{"run_id", "position", "point_key", "label", "value"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(150 * time.Millisecond)
	data := []Run{
		{
			RunID:         1,
			StartTime:     start,
			EndTime:       &end,
			RunDurationMs: ptr(int32(150)),
			Source:        "weekly.json",
			Measure:       ptr("orders.count"),
			PeriodName:    ptr("week"),
			CurrentTotal:  ptr(150.0),
			PreviousTotal: ptr(80.0),
			Delta:         ptr(70.0),
			DeltaPercent:  ptr(87.5),
			ConfigParams:  ptr(`{"points":0}`),
		},
		{RunID: 2, StartTime: start.Add(time.Hour), Source: "-"},
	}

	require.NoError(t, WriteRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[Run](file)
	defer reader.Close()

	readData := make([]Run, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	assert.Equal(t, int64(1), readData[0].RunID)
	assert.Equal(t, "weekly.json", readData[0].Source)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, end, *readData[0].EndTime, time.Nanosecond)
	require.NotNil(t, readData[0].DeltaPercent)
	assert.Equal(t, 87.5, *readData[0].DeltaPercent)

	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].Measure)
	assert.Equal(t, "-", readData[1].Source)
}

func TestWriteSeriesParquetRoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "series.parquet")
	data := []SeriesRow{
		{Position: 0, Key: "2024-01-01", Label: "2024-01-01", Value: 10, Measure: "orders.count"},
		{Position: 1, Key: "2024-01-08", Label: "2024-01-08", Value: 20, Measure: "orders.count", Link: ptr(`{"url":"/x"}`)},
	}

	require.NoError(t, WriteSeriesParquet(data, outputPath))

	got, err := ReadSeriesParquet(outputPath)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadSeriesParquetMissingFile(t *testing.T) {
	_, err := ReadSeriesParquet(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WritePointsParquet([]Point{{RunID: 1}}, filepath.Join(t.TempDir(), "missing", "points.parquet"))
	assert.Error(t, err)
}

func TestConvertRunRecords(t *testing.T) {
	start := time.Now()
	records := []schema.RunRecord{
		{RunID: 7, StartTime: start, Source: "a.csv", Measure: ptr("sales"), TotalPoints: ptr(int32(12))},
	}

	got := ConvertRunRecords(records)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].RunID)
	assert.Equal(t, "a.csv", got[0].Source)
	assert.Equal(t, "sales", *got[0].Measure)
	assert.Equal(t, int32(12), *got[0].TotalPoints)
	assert.Nil(t, got[0].EndTime)
}

func TestConvertPointRecords(t *testing.T) {
	records := []schema.PointRecord{
		{RunID: 1, Position: 0, PointKey: "k0", Label: "l0", Value: 1.5},
		{RunID: 1, Position: 1, PointKey: "k1", Label: "l1", Value: 2.5},
	}

	got := ConvertPointRecords(records)
	require.Len(t, got, 2)
	assert.Equal(t, Point{RunID: 1, Position: 1, PointKey: "k1", Label: "l1", Value: 2.5}, got[1])
	assert.Empty(t, ConvertPointRecords(nil))
}
