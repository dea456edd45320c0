package schema

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatNumber formats a total with comma grouping, e.g. 1234567.5 -> "1,234,567.5".
func FormatNumber(v float64) string {
	return humanize.Commaf(v)
}

// FormatPercent formats a percentage with an explicit sign and one decimal, e.g. "+12.3%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// FormatChange formats the headline change for the given comparison type.
func FormatChange(delta, deltaPercent float64, ct ComparisonType) string {
	if ct == AbsoluteComparison {
		return FormatNumber(delta)
	}
	return FormatPercent(deltaPercent)
}

// DirectionOf returns the direction of a delta.
func DirectionOf(delta float64) Direction {
	switch {
	case delta > 0:
		return UpDirection
	case delta < 0:
		return DownDirection
	default:
		return FlatDirection
	}
}

// ArrowOf returns the arrow drawn next to a delta. Anything not strictly positive points down.
func ArrowOf(delta float64) string {
	if delta > 0 {
		return UpArrow
	}
	return DownArrow
}

// IsGoodChange reports whether a delta is good news given the polarity of the measure.
// A zero delta counts as not positive.
func IsGoodChange(delta float64, positiveIsGood bool) bool {
	positive := delta > 0
	return (positive && positiveIsGood) || (!positive && !positiveIsGood)
}

// PeriodCaption returns the comparison caption, e.g. "vs previous week".
func PeriodCaption(periodName string) string {
	if periodName == "" {
		periodName = "period"
	}
	return "vs previous " + periodName
}
