package core

import (
	"math"
	"slices"

	"github.com/huangsam/sparkline/schema"
)

// groupTotals sums the measure per distinct value of the grouping field.
// It returns the keys in ascending order along with the first row seen for each key.
func groupTotals[L any](rows []schema.Row[L], group, measure string) ([]string, map[string]float64, map[string]schema.Row[L]) {
	totals := make(map[string]float64)
	firsts := make(map[string]schema.Row[L])
	for _, row := range rows {
		key := keyOf(row[group].Value)
		if _, seen := firsts[key]; !seen {
			firsts[key] = row
		}
		totals[key] = addFinite(totals[key], measureOf(row[measure].Value))
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, totals, firsts
}

// BucketPeriods groups rows by the coarse dimension and sums the measure per period.
// Buckets come back in ascending key order; keys are compared as strings.
func BucketPeriods[L any](rows []schema.Row[L], coarse, measure schema.FieldDescriptor) []schema.PeriodBucket[L] {
	keys, totals, firsts := groupTotals(rows, coarse.Name, measure.Name)
	buckets := make([]schema.PeriodBucket[L], 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, schema.PeriodBucket[L]{
			Key:   k,
			Total: totals[k],
			Cell:  cellRef(firsts[k], coarse.Name),
		})
	}
	return buckets
}

// Aggregate compares the latest coarse period against the one before it.
// An empty dataset yields a zero comparison rather than an error.
func Aggregate[L any](rows []schema.Row[L], coarse, measure schema.FieldDescriptor) schema.ComparisonResult[L] {
	return compareBuckets(rows, BucketPeriods(rows, coarse, measure), coarse, measure)
}

// compareBuckets derives the comparison from already computed buckets.
func compareBuckets[L any](rows []schema.Row[L], buckets []schema.PeriodBucket[L], coarse, measure schema.FieldDescriptor) schema.ComparisonResult[L] {
	result := schema.ComparisonResult[L]{PeriodName: PeriodName(coarse)}
	if len(buckets) == 0 {
		return result
	}

	current := buckets[len(buckets)-1]
	result.CurrentKey = current.Key
	result.CurrentTotal = current.Total
	result.CurrentCell = current.Cell
	result.MeasureCell = firstMeasureCell(rows, coarse.Name, measure.Name, current.Key)

	if len(buckets) > 1 {
		previous := buckets[len(buckets)-2]
		result.HasPrevious = true
		result.PreviousKey = previous.Key
		result.PreviousTotal = previous.Total
		result.PreviousCell = previous.Cell
	}

	result.Delta = addFinite(result.CurrentTotal, -result.PreviousTotal)
	result.DeltaPercent = percentChange(result.CurrentTotal, result.PreviousTotal)
	return result
}

// percentChange is the relative change in percent. It is zero when prev is zero
// or when the quotient overflows, so the result is always finite.
func percentChange(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	pct := (curr - prev) / prev * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// addFinite adds two finite values, saturating at ±math.MaxFloat64 instead of overflowing.
func addFinite(a, b float64) float64 {
	return max(-math.MaxFloat64, min(a+b, math.MaxFloat64))
}

// firstMeasureCell returns the measure cell of the first row in the given period.
func firstMeasureCell[L any](rows []schema.Row[L], group, measure, key string) *schema.Cell[L] {
	for _, row := range rows {
		if keyOf(row[group].Value) == key {
			return cellRef(row, measure)
		}
	}
	return nil
}
