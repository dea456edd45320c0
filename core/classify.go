package core

import (
	"slices"
	"strings"

	"github.com/huangsam/sparkline/schema"
)

// granularityOf resolves the rank of a time-like dimension.
// The name is scanned coarse to fine and the first unit found wins; the declared
// type is the fallback, and anything else is treated as a day.
func granularityOf(d schema.FieldDescriptor) schema.Granularity {
	name := strings.ToLower(d.Name)
	for _, g := range schema.GranularityUnits {
		if strings.Contains(name, g.String()) {
			return g
		}
	}
	typ := strings.ToLower(d.Type)
	if unit, ok := strings.CutPrefix(typ, "date_"); ok {
		if g, found := schema.ParseGranularity(unit); found && g != schema.UnknownGranularity {
			return g
		}
	}
	switch typ {
	case "date":
		return schema.DayGranularity
	case "date_time":
		return schema.MinuteGranularity
	}
	return schema.DayGranularity
}

// Classify picks the fine and coarse time dimensions out of the dataset dimensions.
// Ties keep input order, so the result is deterministic for a given input.
func Classify(dimensions []schema.FieldDescriptor) (schema.Classification, error) {
	var ranked []schema.ClassifiedDimension
	for _, d := range dimensions {
		if !d.IsTimeLike() {
			continue
		}
		ranked = append(ranked, schema.ClassifiedDimension{Descriptor: d, Granularity: granularityOf(d)})
	}
	if len(ranked) < 2 {
		return schema.Classification{}, schema.ErrInsufficientTimeDimensions
	}

	slices.SortStableFunc(ranked, func(a, b schema.ClassifiedDimension) int {
		switch {
		case a.Granularity.FinerThan(b.Granularity):
			return -1
		case b.Granularity.FinerThan(a.Granularity):
			return 1
		}
		return 0
	})

	return schema.Classification{
		Fine:      ranked[0],
		Coarse:    ranked[1],
		TimeLikes: ranked,
	}, nil
}

// PeriodName returns the friendly unit of the coarse dimension, used in "vs previous week".
func PeriodName(coarse schema.FieldDescriptor) string {
	name := strings.ToLower(coarse.Name)
	for _, unit := range []string{"week", "month", "quarter", "year", "day", "hour"} {
		if strings.Contains(name, unit) {
			return unit
		}
	}
	return "period"
}
