// Package schema has the data model, enums and formatting helpers shared by all parts of sparkline.
package schema

import "strings"

// Cell is a single value of a row. Value holds the raw number or string, Rendered is the
// optional display text and Links carries opaque drill targets that are never inspected.
type Cell[L any] struct {
	Value    any    `json:"value"`
	Rendered string `json:"rendered,omitempty"`
	Links    []L    `json:"links,omitempty"`
}

// Row maps a field name to its cell. Rows are treated as immutable input.
type Row[L any] map[string]Cell[L]

// FieldDescriptor describes a dimension or measure of a dataset.
type FieldDescriptor struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f FieldDescriptor) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// timeTypes are the declared field types that count as time-like on their own.
var timeTypes = map[string]struct{}{
	"date":         {},
	"date_time":    {},
	"datetime":     {},
	"time":         {},
	"timestamp":    {},
	"date_date":    {},
	"date_week":    {},
	"date_month":   {},
	"date_quarter": {},
	"date_year":    {},
	"date_hour":    {},
	"date_minute":  {},
	"date_second":  {},
	"date_raw":     {},
}

// timeKeywords make a field time-like when found anywhere in its name.
var timeKeywords = []string{"year", "quarter", "month", "week", "day", "hour", "minute", "second", "date", "time"}

// IsTimeLike reports whether the field looks like a time attribute, either by its
// declared type or by a time keyword in its name.
func (f FieldDescriptor) IsTimeLike() bool {
	if _, ok := timeTypes[strings.ToLower(f.Type)]; ok {
		return true
	}
	name := strings.ToLower(f.Name)
	for _, kw := range timeKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Fields is the field metadata of a dataset.
type Fields struct {
	Dimensions []FieldDescriptor `json:"dimension_like"`
	Measures   []FieldDescriptor `json:"measure_like"`
}

// Dataset is an already-fetched query result: field metadata plus rows.
type Dataset[L any] struct {
	Fields Fields   `json:"fields"`
	Rows   []Row[L] `json:"data"`
}

// ClassifiedDimension pairs a dimension with its resolved granularity.
type ClassifiedDimension struct {
	Descriptor  FieldDescriptor `json:"descriptor"`
	Granularity Granularity     `json:"granularity"`
}

// Classification is the output of the granularity classifier.
// Fine drives the series, Coarse drives the period comparison.
type Classification struct {
	Fine      ClassifiedDimension   `json:"fine"`
	Coarse    ClassifiedDimension   `json:"coarse"`
	TimeLikes []ClassifiedDimension `json:"time_likes"` // all time-like dimensions, finest first
}

// PeriodBucket is the measure total of one distinct coarse period.
type PeriodBucket[L any] struct {
	Key   string   `json:"key"`
	Total float64  `json:"total"`
	Cell  *Cell[L] `json:"cell,omitempty"` // coarse cell of the first row in the period
}

// SeriesPoint is the measure total of one distinct fine time unit.
type SeriesPoint[L any] struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Value       float64  `json:"value"`
	Cell        *Cell[L] `json:"cell,omitempty"`         // fine cell of the first row
	MeasureCell *Cell[L] `json:"measure_cell,omitempty"` // measure cell of the first row
}

// ComparisonResult is the current-vs-previous period comparison.
type ComparisonResult[L any] struct {
	CurrentKey    string   `json:"current_key,omitempty"`
	PreviousKey   string   `json:"previous_key,omitempty"`
	CurrentTotal  float64  `json:"current_total"`
	PreviousTotal float64  `json:"previous_total"`
	Delta         float64  `json:"delta"`
	DeltaPercent  float64  `json:"delta_percent"`
	HasPrevious   bool     `json:"has_previous"`
	PeriodName    string   `json:"period_name"`
	CurrentCell   *Cell[L] `json:"current_cell,omitempty"`
	PreviousCell  *Cell[L] `json:"previous_cell,omitempty"`
	MeasureCell   *Cell[L] `json:"measure_cell,omitempty"` // measure cell of the first current-period row
}

// Headline is the display-ready form of a comparison.
type Headline struct {
	Value     string    `json:"value"`     // current total, comma grouped
	Change    string    `json:"change"`    // signed percentage or absolute delta
	Direction Direction `json:"direction"` // sign of the delta
	Arrow     string    `json:"arrow"`
	Good      bool      `json:"good"`
	Caption   string    `json:"caption"` // e.g. "vs previous week"
}

// SummaryOptions tunes the summary beyond the raw dataset.
type SummaryOptions struct {
	Points         int            // sampled series size, 0 keeps every point
	Measure        string         // measure name override, empty uses the first measure
	ComparisonType ComparisonType // headline change style
	PositiveIsGood bool           // whether an increase is good news
	Title          string
	MeasureLabel   string
}

// Summary is the full engine output for one dataset.
type Summary[L any] struct {
	Title          string              `json:"title,omitempty"`
	MeasureLabel   string              `json:"measure_label"`
	Measure        FieldDescriptor     `json:"measure"`
	Classification Classification      `json:"classification"`
	Comparison     ComparisonResult[L] `json:"comparison"`
	Headline       Headline            `json:"headline"`
	Buckets        []PeriodBucket[L]   `json:"buckets"`
	Series         []SeriesPoint[L]    `json:"series"`
	TotalPoints    int                 `json:"total_points"` // size of the full series before sampling
}
