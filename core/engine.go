package core

import (
	"fmt"

	"github.com/huangsam/sparkline/schema"
)

// Summarize runs the whole pipeline over one dataset snapshot: classify the time
// dimensions, compare the last two coarse periods, build the fine series and sample it.
// It is pure and safe to call concurrently.
func Summarize[L any](ds schema.Dataset[L], opts schema.SummaryOptions) (schema.Summary[L], error) {
	measure, cls, err := validate(ds.Fields, opts)
	if err != nil {
		return schema.Summary[L]{}, err
	}

	coarse, fine := cls.Coarse.Descriptor, cls.Fine.Descriptor
	buckets := BucketPeriods(ds.Rows, coarse, measure)
	comparison := compareBuckets(ds.Rows, buckets, coarse, measure)
	full := BuildSeries(ds.Rows, fine, measure)

	measureLabel := opts.MeasureLabel
	if measureLabel == "" {
		measureLabel = measure.DisplayLabel()
	}

	return schema.Summary[L]{
		Title:          opts.Title,
		MeasureLabel:   measureLabel,
		Measure:        measure,
		Classification: cls,
		Comparison:     comparison,
		Headline:       BuildHeadline(comparison, opts),
		Buckets:        buckets,
		Series:         Downsample(full, opts.Points),
		TotalPoints:    len(full),
	}, nil
}

// BuildHeadline turns a comparison into display strings.
func BuildHeadline[L any](c schema.ComparisonResult[L], opts schema.SummaryOptions) schema.Headline {
	return schema.Headline{
		Value:     schema.FormatNumber(c.CurrentTotal),
		Change:    schema.FormatChange(c.Delta, c.DeltaPercent, opts.ComparisonType),
		Direction: schema.DirectionOf(c.Delta),
		Arrow:     schema.ArrowOf(c.Delta),
		Good:      schema.IsGoodChange(c.Delta, opts.PositiveIsGood),
		Caption:   schema.PeriodCaption(c.PeriodName),
	}
}

// validate resolves the measure and the time dimensions. The measure is checked first.
func validate(fields schema.Fields, opts schema.SummaryOptions) (schema.FieldDescriptor, schema.Classification, error) {
	measure, err := selectMeasure(fields.Measures, opts.Measure)
	if err != nil {
		return schema.FieldDescriptor{}, schema.Classification{}, err
	}
	cls, err := Classify(fields.Dimensions)
	if err != nil {
		return schema.FieldDescriptor{}, schema.Classification{}, err
	}
	return measure, cls, nil
}

// selectMeasure returns the named measure, or the first one when name is empty.
func selectMeasure(measures []schema.FieldDescriptor, name string) (schema.FieldDescriptor, error) {
	if len(measures) == 0 {
		return schema.FieldDescriptor{}, schema.ErrMissingMeasure
	}
	if name == "" {
		return measures[0], nil
	}
	for _, m := range measures {
		if m.Name == name {
			return m, nil
		}
	}
	return schema.FieldDescriptor{}, fmt.Errorf("%w: %s", schema.ErrUnknownMeasure, name)
}
