// Package parquet exports run history and sampled series to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/sparkline/schema"
	"github.com/parquet-go/parquet-go"
)

// Run maps to the sparkline_runs table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	// Source is the dataset path, or "-" for stdin
	Source string `parquet:"source,snappy"`

	Measure         *string  `parquet:"measure,optional,snappy"`
	FineDimension   *string  `parquet:"fine_dimension,optional,snappy"`
	CoarseDimension *string  `parquet:"coarse_dimension,optional,snappy"`
	PeriodName      *string  `parquet:"period_name,optional,snappy"`
	CurrentTotal    *float64 `parquet:"current_total,optional,snappy"`
	PreviousTotal   *float64 `parquet:"previous_total,optional,snappy"`
	Delta           *float64 `parquet:"delta,optional,snappy"`
	DeltaPercent    *float64 `parquet:"delta_percent,optional,snappy"`
	TotalPoints     *int32   `parquet:"total_points,optional,snappy"`
	SampledPoints   *int32   `parquet:"sampled_points,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration of the run
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Point maps to the sparkline_points table.
type Point struct {
	RunID    int64   `parquet:"run_id,snappy"`
	Position int32   `parquet:"position,snappy"`
	PointKey string  `parquet:"point_key,snappy"`
	Label    string  `parquet:"label,snappy"`
	Value    float64 `parquet:"value,snappy"`
}

// SeriesRow is one point of a sampled series written by the parquet output mode.
type SeriesRow struct {
	Position int32   `parquet:"position,snappy"`
	Key      string  `parquet:"key,snappy"`
	Label    string  `parquet:"label,snappy"`
	Value    float64 `parquet:"value,snappy"`
	Measure  string  `parquet:"measure,snappy"`

	// Link is the drill link of the point as raw JSON, when present
	Link *string `parquet:"link,optional,snappy"`
}

// writeParquet writes rows of any struct type to outputPath.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes run records to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePointsParquet writes point records to a Parquet file.
func WritePointsParquet(data []Point, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesParquet writes a sampled series to a Parquet file.
func WriteSeriesParquet(data []SeriesRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ReadSeriesParquet reads back a series file, mostly useful for tests and tooling.
func ReadSeriesParquet(path string) ([]SeriesRow, error) {
	rows, err := parquet.ReadFile[SeriesRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return rows, nil
}

// ConvertRunRecords converts stored runs for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:           r.RunID,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			RunDurationMs:   r.RunDurationMs,
			Source:          r.Source,
			Measure:         r.Measure,
			FineDimension:   r.FineDimension,
			CoarseDimension: r.CoarseDimension,
			PeriodName:      r.PeriodName,
			CurrentTotal:    r.CurrentTotal,
			PreviousTotal:   r.PreviousTotal,
			Delta:           r.Delta,
			DeltaPercent:    r.DeltaPercent,
			TotalPoints:     r.TotalPoints,
			SampledPoints:   r.SampledPoints,
			ConfigParams:    r.ConfigParams,
		}
	}
	return result
}

// ConvertPointRecords converts stored points for Parquet export.
func ConvertPointRecords(records []schema.PointRecord) []Point {
	result := make([]Point, len(records))
	for i, r := range records {
		result[i] = Point(r)
	}
	return result
}
