package outwriter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 10, ""},
		{"zero width", []float64{1, 2}, 0, ""},
		{"ramp", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 10, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{5, 5, 5}, 10, "▄▄▄"},
		{"negative", []float64{-10, 0, 10}, 10, "▁▅█"},
		{"keeps the most recent", []float64{100, 0, 7}, 2, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSparkline(tt.values, tt.width))
		})
	}
}

func TestRenderSparklineWidth(t *testing.T) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = float64(i % 17)
	}
	assert.Equal(t, 40, utf8.RuneCountInString(RenderSparkline(values, 40)))
}

func TestHighlightLast(t *testing.T) {
	assert.Equal(t, "▁█", highlightLast("▁█", false))
	assert.Equal(t, "", highlightLast("", true))
}

func TestWidths(t *testing.T) {
	assert.Equal(t, minLabelWidth, GetMaxLabelWidth(&contract.Config{Width: 20}))
	assert.Equal(t, maxLabelWidth, GetMaxLabelWidth(&contract.Config{Width: 500}))
	assert.Equal(t, 30, GetMaxLabelWidth(&contract.Config{Width: 70}))

	assert.Equal(t, minSparkWidth, GetSparklineWidth(&contract.Config{Width: 20}))
	assert.Equal(t, 70, GetSparklineWidth(&contract.Config{Width: 100}))
	assert.Equal(t, maxSparkWidth, GetSparklineWidth(&contract.Config{Width: 1000}))
}

func TestVisibleWindow(t *testing.T) {
	assert.Equal(t, []float64{2, 3}, visibleWindow([]float64{1, 2, 3}, 2))
	assert.Equal(t, []float64{1, 2, 3}, visibleWindow([]float64{1, 2, 3}, 5))
	assert.Nil(t, visibleWindow([]float64{1, 2, 3}, 0))
}

func TestPrintSparklineRangeMatchesDrawnPoints(t *testing.T) {
	s := weekSummary()
	// An outlier older than the drawn window must not stretch the reported range
	s.Series = []dataset.SeriesPoint{{Key: "old", Value: 9000}}
	for i := range minSparkWidth {
		s.Series = append(s.Series, dataset.SeriesPoint{Key: "p", Value: float64(i + 1)})
	}

	ow, stdout, _ := newTestWriter()
	cfg := testConfig(schema.TextOut)
	cfg.Width = 20 // clamps the sparkline to minSparkWidth runes
	ow.printSparkline(s, cfg)

	out := stdout.String()
	assert.Contains(t, out, "min 1 max 8")
	assert.NotContains(t, out, "9,000")
	assert.Equal(t, minSparkWidth, utf8.RuneCountInString(strings.Fields(out)[0]))
}
