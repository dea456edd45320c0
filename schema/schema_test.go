package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDescriptorDisplayLabel(t *testing.T) {
	assert.Equal(t, "Revenue", FieldDescriptor{Name: "orders.revenue", Label: "Revenue"}.DisplayLabel())
	assert.Equal(t, "orders.revenue", FieldDescriptor{Name: "orders.revenue"}.DisplayLabel())
}

func TestFieldDescriptor_IsTimeLike(t *testing.T) {
	tests := []struct {
		name string
		dim  FieldDescriptor
		want bool
	}{
		{"date type", FieldDescriptor{Name: "orders.created", Type: "date"}, true},
		{"date_time type", FieldDescriptor{Name: "orders.created", Type: "date_time"}, true},
		{"timestamp type", FieldDescriptor{Name: "events.at", Type: "TIMESTAMP"}, true},
		{"week in name", FieldDescriptor{Name: "orders.created_week", Type: "string"}, true},
		{"uppercase name", FieldDescriptor{Name: "ORDERS.CREATED_MONTH"}, true},
		{"plain string", FieldDescriptor{Name: "users.country", Type: "string"}, false},
		{"number", FieldDescriptor{Name: "orders.amount", Type: "number"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dim.IsTimeLike())
		})
	}
}

func TestDatasetDecodesQueryResponse(t *testing.T) {
	payload := `{
		"fields": {
			"dimension_like": [{"name": "orders.created_date", "type": "date_date"}],
			"measure_like": [{"name": "orders.count", "type": "count", "label": "Orders"}]
		},
		"data": [
			{"orders.created_date": {"value": "2024-01-01", "rendered": "Jan 1", "links": [{"url": "/x"}]},
			 "orders.count": {"value": 3}}
		]
	}`

	var ds Dataset[json.RawMessage]
	require.NoError(t, json.Unmarshal([]byte(payload), &ds))

	require.Len(t, ds.Fields.Dimensions, 1)
	assert.Equal(t, "date_date", ds.Fields.Dimensions[0].Type)
	require.Len(t, ds.Fields.Measures, 1)
	assert.Equal(t, "Orders", ds.Fields.Measures[0].Label)

	require.Len(t, ds.Rows, 1)
	cell := ds.Rows[0]["orders.created_date"]
	assert.Equal(t, "2024-01-01", cell.Value)
	assert.Equal(t, "Jan 1", cell.Rendered)
	require.Len(t, cell.Links, 1)
	assert.JSONEq(t, `{"url": "/x"}`, string(cell.Links[0]))
	assert.Equal(t, float64(3), ds.Rows[0]["orders.count"].Value)
}

func TestOutcomeFromSummary(t *testing.T) {
	s := Summary[string]{
		Measure: FieldDescriptor{Name: "sales"},
		Classification: Classification{
			Fine:   ClassifiedDimension{Descriptor: FieldDescriptor{Name: "created_date"}, Granularity: DayGranularity},
			Coarse: ClassifiedDimension{Descriptor: FieldDescriptor{Name: "created_week"}, Granularity: WeekGranularity},
		},
		Comparison: ComparisonResult[string]{
			CurrentTotal:  150,
			PreviousTotal: 80,
			Delta:         70,
			DeltaPercent:  87.5,
			PeriodName:    "week",
		},
		Series:      []SeriesPoint[string]{{Key: "a"}, {Key: "b"}},
		TotalPoints: 14,
	}

	out := OutcomeFromSummary(s)
	assert.Equal(t, "sales", out.Measure)
	assert.Equal(t, "created_date", out.FineDimension)
	assert.Equal(t, "created_week", out.CoarseDimension)
	assert.Equal(t, "week", out.PeriodName)
	assert.Equal(t, 70.0, out.Delta)
	assert.Equal(t, 14, out.TotalPoints)
	assert.Equal(t, 2, out.SampledPoints)
}

func TestPointRecordsFromSeries(t *testing.T) {
	series := []SeriesPoint[string]{
		{Key: "2024-01-01", Label: "Jan 1", Value: 10},
		{Key: "2024-01-02", Label: "Jan 2", Value: 20},
	}
	records := PointRecordsFromSeries(7, series)
	require.Len(t, records, 2)
	assert.Equal(t, PointRecord{RunID: 7, Position: 1, PointKey: "2024-01-02", Label: "Jan 2", Value: 20}, records[1])
}
