package core

import "context"

// Context keys for run options
type contextKey string

const (
	sourceKey contextKey = "source"
	runIDKey  contextKey = "runID"
)

// WithSource labels the runs started under ctx, e.g. "http" or "mcp".
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// sourceFromContext returns the run label, or fallback when none was set.
func sourceFromContext(ctx context.Context, fallback string) string {
	if source, ok := ctx.Value(sourceKey).(string); ok && source != "" {
		return source
	}
	return fallback
}

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID retrieves the history run ID from the context
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false
	}
	runID, ok := val.(int64)
	return runID, ok && runID > 0
}
