package outwriter

import (
	"math"

	"github.com/fatih/color"
)

// sparkBlocks are the eight block heights, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// lastPointColor highlights the most recent value of a sparkline.
var lastPointColor = color.New(color.FgYellow, color.Bold)

// visibleWindow returns the most recent width values, the part a sparkline can draw.
func visibleWindow(values []float64, width int) []float64 {
	if width <= 0 {
		return nil
	}
	if len(values) > width {
		return values[len(values)-width:]
	}
	return values
}

// RenderSparkline draws values as block runes scaled between their min and max.
// When there are more values than width, only the most recent width values are drawn.
// A flat series renders at mid height.
func RenderSparkline(values []float64, width int) string {
	values = visibleWindow(values, width)
	if len(values) == 0 {
		return ""
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	top := len(sparkBlocks) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		level := top / 2
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		out[i] = sparkBlocks[min(max(level, 0), top)]
	}
	return string(out)
}

// highlightLast colors the final rune of a rendered sparkline when colors are enabled.
func highlightLast(spark string, useColors bool) string {
	runes := []rune(spark)
	if !useColors || len(runes) == 0 {
		return spark
	}
	last := len(runes) - 1
	return string(runes[:last]) + lastPointColor.Sprint(string(runes[last]))
}
