package core

import (
	"math"
	"testing"

	"github.com/huangsam/sparkline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	weekDim  = schema.FieldDescriptor{Name: "orders.created_week", Type: "date_week"}
	dateDim  = schema.FieldDescriptor{Name: "orders.created_date", Type: "date_date"}
	salesDim = schema.FieldDescriptor{Name: "orders.sales", Type: "sum"}
)

// row builds a test row for the week/date/sales fields.
func row(week, date string, sales any) schema.Row[string] {
	return schema.Row[string]{
		weekDim.Name:  {Value: week, Links: []string{"drill:" + week}},
		dateDim.Name:  {Value: date},
		salesDim.Name: {Value: sales},
	}
}

func TestBucketPeriods(t *testing.T) {
	rows := []schema.Row[string]{
		row("2024-W02", "2024-01-08", 30.0),
		row("2024-W01", "2024-01-01", 10.0),
		row("2024-W02", "2024-01-09", 20.0),
		row("2024-W01", "2024-01-02", 5.0),
	}

	buckets := BucketPeriods(rows, weekDim, salesDim)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-W01", buckets[0].Key)
	assert.Equal(t, 15.0, buckets[0].Total)
	assert.Equal(t, "2024-W02", buckets[1].Key)
	assert.Equal(t, 50.0, buckets[1].Total)

	require.NotNil(t, buckets[1].Cell)
	assert.Equal(t, []string{"drill:2024-W02"}, buckets[1].Cell.Links)
}

func TestBucketPeriods_MassConservation(t *testing.T) {
	rows := []schema.Row[string]{
		row("a", "1", 1.5),
		row("b", "2", 2.25),
		row("c", "3", "4"),
		row("a", "4", 8.0),
		row("c", "5", -3.0),
	}
	var total float64
	for _, b := range BucketPeriods(rows, weekDim, salesDim) {
		total += b.Total
	}
	assert.InDelta(t, 1.5+2.25+4+8-3, total, 1e-9)
}

func TestAggregate_WeekScenario(t *testing.T) {
	rows := []schema.Row[string]{
		row("2024-01-01", "2024-01-01", 50.0),
		row("2024-01-01", "2024-01-03", 30.0),
		row("2024-01-08", "2024-01-08", 100.0),
		row("2024-01-08", "2024-01-10", 50.0),
	}

	result := Aggregate(rows, weekDim, salesDim)
	assert.Equal(t, 150.0, result.CurrentTotal)
	assert.Equal(t, 80.0, result.PreviousTotal)
	assert.Equal(t, 70.0, result.Delta)
	assert.InDelta(t, 87.5, result.DeltaPercent, 1e-9)
	assert.Equal(t, "2024-01-08", result.CurrentKey)
	assert.Equal(t, "2024-01-01", result.PreviousKey)
	assert.True(t, result.HasPrevious)
	assert.Equal(t, "week", result.PeriodName)

	require.NotNil(t, result.CurrentCell)
	assert.Equal(t, "2024-01-08", result.CurrentCell.Value)
	require.NotNil(t, result.PreviousCell)
	assert.Equal(t, "2024-01-01", result.PreviousCell.Value)
	require.NotNil(t, result.MeasureCell)
	assert.Equal(t, 100.0, result.MeasureCell.Value)
}

func TestAggregate_Decline(t *testing.T) {
	rows := []schema.Row[string]{
		row("W1", "d1", 150.0),
		row("W2", "d2", 80.0),
	}
	result := Aggregate(rows, weekDim, salesDim)
	assert.Equal(t, -70.0, result.Delta)
	assert.InDelta(t, -46.67, result.DeltaPercent, 0.01)
}

func TestAggregate_SinglePeriod(t *testing.T) {
	rows := []schema.Row[string]{
		row("W1", "d1", 10.0),
		row("W1", "d2", 5.0),
	}
	result := Aggregate(rows, weekDim, salesDim)
	assert.Equal(t, 15.0, result.CurrentTotal)
	assert.Equal(t, 0.0, result.PreviousTotal)
	assert.Equal(t, 15.0, result.Delta)
	assert.Equal(t, 0.0, result.DeltaPercent)
	assert.False(t, result.HasPrevious)
	assert.Nil(t, result.PreviousCell)
}

func TestAggregate_ZeroPrevious(t *testing.T) {
	rows := []schema.Row[string]{
		row("W1", "d1", 0.0),
		row("W2", "d2", 25.0),
	}
	result := Aggregate(rows, weekDim, salesDim)
	assert.Equal(t, 25.0, result.Delta)
	assert.Equal(t, 0.0, result.DeltaPercent)
	assert.False(t, math.IsNaN(result.DeltaPercent))
	assert.False(t, math.IsInf(result.DeltaPercent, 0))
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate[string](nil, weekDim, salesDim)
	assert.Equal(t, 0.0, result.CurrentTotal)
	assert.Equal(t, 0.0, result.PreviousTotal)
	assert.Equal(t, 0.0, result.Delta)
	assert.Equal(t, 0.0, result.DeltaPercent)
	assert.Nil(t, result.CurrentCell)
	assert.Nil(t, result.PreviousCell)
	assert.Nil(t, result.MeasureCell)
}

func TestAggregate_CoercesMeasureValues(t *testing.T) {
	rows := []schema.Row[string]{
		row("W1", "d1", "12.5"),
		row("W1", "d2", "n/a"),
		row("W1", "d3", nil),
		row("W1", "d4", math.NaN()),
		row("W1", "d5", math.Inf(1)),
		row("W1", "d6", 3),
		{weekDim.Name: {Value: "W1"}}, // measure missing entirely
	}
	result := Aggregate(rows, weekDim, salesDim)
	assert.Equal(t, 15.5, result.CurrentTotal)
}

func TestAggregate_RowOrderIndependent(t *testing.T) {
	rows := []schema.Row[string]{
		row("W1", "d1", 1.0),
		row("W2", "d2", 2.0),
		row("W3", "d3", 4.0),
		row("W2", "d4", 8.0),
	}
	reversed := make([]schema.Row[string], len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}

	a := Aggregate(rows, weekDim, salesDim)
	b := Aggregate(reversed, weekDim, salesDim)
	assert.Equal(t, a.CurrentTotal, b.CurrentTotal)
	assert.Equal(t, a.PreviousTotal, b.PreviousTotal)
	assert.Equal(t, a.Delta, b.Delta)
	assert.Equal(t, a.DeltaPercent, b.DeltaPercent)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, percentChange(10, 0))
	assert.Equal(t, 100.0, percentChange(20, 10))
	assert.Equal(t, -50.0, percentChange(5, 10))
	assert.Equal(t, 0.0, percentChange(1e10, 1e-300))
	assert.Equal(t, 0.0, percentChange(math.MaxFloat64, -math.MaxFloat64))
}

func TestAggregate_ExtremeValuesStayFinite(t *testing.T) {
	tests := []struct {
		name string
		rows []schema.Row[string]
	}{
		{"tiny previous total", []schema.Row[string]{
			row("2024-W01", "2024-01-01", 1e-300),
			row("2024-W02", "2024-01-08", 1e10),
		}},
		{"period sum overflows", []schema.Row[string]{
			row("2024-W01", "2024-01-01", 1.0),
			row("2024-W02", "2024-01-08", 1.7e308),
			row("2024-W02", "2024-01-09", 1.7e308),
		}},
		{"delta overflows", []schema.Row[string]{
			row("2024-W01", "2024-01-01", -1.7e308),
			row("2024-W02", "2024-01-08", 1.7e308),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Aggregate(tt.rows, weekDim, salesDim)
			for _, v := range []float64{c.CurrentTotal, c.PreviousTotal, c.Delta, c.DeltaPercent} {
				assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "value %v is not finite", v)
			}

			series := BuildSeries(tt.rows, dateDim, salesDim)
			for _, p := range series {
				assert.False(t, math.IsInf(p.Value, 0), "series value %v is not finite", p.Value)
			}
		})
	}

	t.Run("saturated sum", func(t *testing.T) {
		c := Aggregate([]schema.Row[string]{
			row("2024-W02", "2024-01-08", 1.7e308),
			row("2024-W02", "2024-01-09", 1.7e308),
		}, weekDim, salesDim)
		assert.Equal(t, math.MaxFloat64, c.CurrentTotal)
	})
}
