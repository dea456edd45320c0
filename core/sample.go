package core

import "github.com/huangsam/sparkline/schema"

// Downsample reduces a series to at most target points by index selection.
// It never interpolates: every returned point is an element of the input, the first and
// last points are always kept when target >= 2, and target <= 0 or target >= len(series)
// returns the series untouched.
func Downsample[L any](series []schema.SeriesPoint[L], target int) []schema.SeriesPoint[L] {
	n := len(series)
	if target <= 0 || target >= n {
		return series
	}
	switch target {
	case 1:
		return []schema.SeriesPoint[L]{series[n-1]}
	case 2:
		return []schema.SeriesPoint[L]{series[0], series[n-1]}
	}

	indices := sampleIndices(n, target)
	sampled := make([]schema.SeriesPoint[L], 0, len(indices))
	for _, idx := range indices {
		sampled = append(sampled, series[idx])
	}
	return sampled
}

// sampleIndices picks target indices out of n with a uniform stride, ending on n-1.
// The stride uses integer arithmetic, so each index is the exact floor of
// i*(n-1)/(target-1). A floating point stride can round one below that (n=31,
// target=23, i=11 gives 14 instead of 15); the exact floor is used on purpose.
// With 3 <= target < n the stride exceeds one, so indices strictly increase.
func sampleIndices(n, target int) []int {
	indices := make([]int, 0, target)
	for i := range target - 1 {
		indices = append(indices, i*(n-1)/(target-1))
	}
	return append(indices, n-1)
}
