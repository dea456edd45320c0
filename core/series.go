package core

import (
	"github.com/huangsam/sparkline/schema"
)

// BuildSeries groups rows by the fine dimension into one point per distinct time unit.
// Labels prefer the rendered text of the first row's fine cell.
func BuildSeries[L any](rows []schema.Row[L], fine, measure schema.FieldDescriptor) []schema.SeriesPoint[L] {
	keys, totals, firsts := groupTotals(rows, fine.Name, measure.Name)
	series := make([]schema.SeriesPoint[L], 0, len(keys))
	for _, k := range keys {
		first := firsts[k]
		label := k
		if cell, ok := first[fine.Name]; ok && cell.Rendered != "" {
			label = cell.Rendered
		}
		series = append(series, schema.SeriesPoint[L]{
			Key:         k,
			Label:       label,
			Value:       totals[k],
			Cell:        cellRef(first, fine.Name),
			MeasureCell: cellRef(first, measure.Name),
		})
	}
	return series
}
