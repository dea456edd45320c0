package schema

import "errors"

// Validation failures returned by the summary engine. Callers test for them with errors.Is.
var (
	// ErrInsufficientTimeDimensions means fewer than two time-like dimensions were supplied.
	ErrInsufficientTimeDimensions = errors.New("this visualization requires two time dimensions")

	// ErrMissingMeasure means the dataset has no measure to aggregate.
	ErrMissingMeasure = errors.New("this visualization requires one measure")

	// ErrUnknownMeasure means the requested measure is not among the dataset measures.
	ErrUnknownMeasure = errors.New("measure not found in dataset")
)
