package schema

import "time"

// RunOutcome is the non-generic slice of a summary that the history store keeps per run.
type RunOutcome struct {
	Measure         string
	FineDimension   string
	CoarseDimension string
	PeriodName      string
	CurrentTotal    float64
	PreviousTotal   float64
	Delta           float64
	DeltaPercent    float64
	TotalPoints     int
	SampledPoints   int
}

// PointRecord is one sampled series point of a run.
type PointRecord struct {
	RunID    int64
	Position int32
	PointKey string
	Label    string
	Value    float64
}

// RunRecord represents a row from the sparkline_runs table.
type RunRecord struct {
	RunID           int64
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	Source          string
	Measure         *string
	FineDimension   *string
	CoarseDimension *string
	PeriodName      *string
	CurrentTotal    *float64
	PreviousTotal   *float64
	Delta           *float64
	DeltaPercent    *float64
	TotalPoints     *int32
	SampledPoints   *int32
	ConfigParams    *string
}

// OutcomeFromSummary extracts the stored outcome of a summary.
func OutcomeFromSummary[L any](s Summary[L]) RunOutcome {
	return RunOutcome{
		Measure:         s.Measure.Name,
		FineDimension:   s.Classification.Fine.Descriptor.Name,
		CoarseDimension: s.Classification.Coarse.Descriptor.Name,
		PeriodName:      s.Comparison.PeriodName,
		CurrentTotal:    s.Comparison.CurrentTotal,
		PreviousTotal:   s.Comparison.PreviousTotal,
		Delta:           s.Comparison.Delta,
		DeltaPercent:    s.Comparison.DeltaPercent,
		TotalPoints:     s.TotalPoints,
		SampledPoints:   len(s.Series),
	}
}

// PointRecordsFromSeries converts a sampled series into storable point records.
func PointRecordsFromSeries[L any](runID int64, series []SeriesPoint[L]) []PointRecord {
	records := make([]PointRecord, 0, len(series))
	for i, p := range series {
		records = append(records, PointRecord{
			RunID:    runID,
			Position: int32(i),
			PointKey: p.Key,
			Label:    p.Label,
			Value:    p.Value,
		})
	}
	return records
}
