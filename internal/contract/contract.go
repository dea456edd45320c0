// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/sparkline/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSummaryStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking summary runs and their sampled points.
type HistoryStore interface {
	// BeginRun creates a new run for the given source and returns its unique ID
	BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error)

	// EndRun updates the run with its outcome and completion time
	EndRun(runID int64, endTime time.Time, outcome schema.RunOutcome) error

	// RecordPoints stores the sampled series of a run
	RecordPoints(runID int64, points []schema.PointRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllPoints retrieves every recorded point ordered by run and position
	GetAllPoints() ([]schema.PointRecord, error)

	// Close closes the underlying connection
	Close() error
}
