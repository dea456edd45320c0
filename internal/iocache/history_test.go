package iocache

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/huangsam/sparkline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteHistory(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, tempDBPath(t, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func weekOutcome() schema.RunOutcome {
	return schema.RunOutcome{
		Measure:         "orders.count",
		FineDimension:   "orders.created_date",
		CoarseDimension: "orders.created_week",
		PeriodName:      "week",
		CurrentTotal:    150,
		PreviousTotal:   80,
		Delta:           70,
		DeltaPercent:    87.5,
		TotalPoints:     14,
		SampledPoints:   3,
	}
}

func TestHistoryStoreRunLifecycle(t *testing.T) {
	store := newSQLiteHistory(t)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, "weekly.json", map[string]any{"points": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	require.NoError(t, store.EndRun(runID, start.Add(250*time.Millisecond), weekOutcome()))
	require.NoError(t, store.RecordPoints(runID, []schema.PointRecord{
		{RunID: runID, Position: 0, PointKey: "2024-01-01", Label: "Jan 1", Value: 10},
		{RunID: runID, Position: 1, PointKey: "2024-01-05", Label: "Jan 5", Value: 30},
		{RunID: runID, Position: 2, PointKey: "2024-01-14", Label: "Jan 14", Value: 20},
	}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(250), *run.RunDurationMs)
	assert.Equal(t, "weekly.json", run.Source)
	require.NotNil(t, run.PeriodName)
	assert.Equal(t, "week", *run.PeriodName)
	require.NotNil(t, run.DeltaPercent)
	assert.Equal(t, 87.5, *run.DeltaPercent)
	require.NotNil(t, run.SampledPoints)
	assert.Equal(t, int32(3), *run.SampledPoints)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"points":3}`, *run.ConfigParams)

	points, err := store.GetAllPoints()
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-01-05", points[1].PointKey)
	assert.Equal(t, 20.0, points[2].Value)
}

func TestHistoryStoreUnfinishedRun(t *testing.T) {
	store := newSQLiteHistory(t)

	_, err := store.BeginRun(time.Now(), "-", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].Measure)
	assert.Nil(t, runs[0].CurrentTotal)
}

func TestHistoryStoreEndUnknownRun(t *testing.T) {
	store := newSQLiteHistory(t)
	assert.Error(t, store.EndRun(42, time.Now(), weekOutcome()))
}

func TestHistoryStoreDuplicatePointsRollBack(t *testing.T) {
	store := newSQLiteHistory(t)
	runID, err := store.BeginRun(time.Now(), "a.csv", nil)
	require.NoError(t, err)

	err = store.RecordPoints(runID, []schema.PointRecord{
		{Position: 0, PointKey: "a", Label: "a", Value: 1},
		{Position: 0, PointKey: "b", Label: "b", Value: 2},
	})
	assert.Error(t, err)

	points, err := store.GetAllPoints()
	require.NoError(t, err)
	assert.Empty(t, points, "a failed batch leaves no partial points")
}

func TestHistoryStoreStatus(t *testing.T) {
	store := newSQLiteHistory(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		runID, err := store.BeginRun(first.Add(time.Duration(i)*time.Hour), "a.csv", nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordPoints(runID, []schema.PointRecord{{Position: 0, PointKey: "k", Label: "k", Value: 1}}))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, int64(3), status.LastRunID)
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.True(t, first.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.Equal(t, 3, status.TotalPoints)
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "x", nil)
	assert.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.EndRun(runID, time.Now(), weekOutcome()))
	assert.NoError(t, store.RecordPoints(runID, []schema.PointRecord{{Value: 1}}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestClearHistorySQLite(t *testing.T) {
	dbPath := tempDBPath(t, "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestMigrateHistorySQLite(t *testing.T) {
	dbPath := tempDBPath(t, "history.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "to version 2")

	out.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "No migration needed")

	// Store still works on a migrated database
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.BeginRun(time.Now(), "a.csv", nil)
	assert.NoError(t, err)
	require.NoError(t, store.Close())

	out.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1, &out))
	assert.Contains(t, out.String(), "from version 2 to version 1")

	out.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0, &out))
	assert.Contains(t, out.String(), "to version 0")
}

func TestMigrateHistoryUnsupported(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, MigrateHistory(schema.NoneBackend, "", -1, &out))
	assert.Error(t, MigrateHistory("bogus", "", -1, &out))
}

func TestExportHistory(t *testing.T) {
	t.Run("writes runs and points", func(t *testing.T) {
		store := newSQLiteHistory(t)
		runID, err := store.BeginRun(time.Now(), "weekly.json", nil)
		require.NoError(t, err)
		require.NoError(t, store.EndRun(runID, time.Now(), weekOutcome()))
		require.NoError(t, store.RecordPoints(runID, []schema.PointRecord{{Position: 0, PointKey: "k", Label: "k", Value: 1}}))

		base := tempDBPath(t, "export")
		var out bytes.Buffer
		require.NoError(t, ExportHistory(store, base, &out))

		for _, suffix := range []string{".runs.parquet", ".points.parquet"} {
			info, err := os.Stat(base + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
		assert.Contains(t, out.String(), "Exported 1 runs")
	})

	t.Run("requires output file", func(t *testing.T) {
		assert.ErrorContains(t, ExportHistory(&MockHistoryStore{}, "", &bytes.Buffer{}), "--output-file")
	})

	t.Run("requires history", func(t *testing.T) {
		assert.ErrorContains(t, ExportHistory(nil, "out", &bytes.Buffer{}), "not enabled")
	})

	t.Run("empty history", func(t *testing.T) {
		mockStore := &MockHistoryStore{}
		mockStore.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite"}, nil)
		assert.ErrorContains(t, ExportHistory(mockStore, "out", &bytes.Buffer{}), "no run history")
		mockStore.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		mockStore := &MockHistoryStore{}
		mockStore.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
		assert.ErrorContains(t, ExportHistory(mockStore, "out", &bytes.Buffer{}), "boom")
	})
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintCacheStatus(&out, schema.CacheStatus{Backend: "sqlite", Connected: true, TotalEntries: 2, TableSizeBytes: 4096, LastEntryTime: time.Now(), OldestEntryTime: time.Now()})
	assert.Contains(t, out.String(), "Cache Backend: sqlite")
	assert.Contains(t, out.String(), "Total Entries: 2")
	assert.Contains(t, out.String(), "4.1 kB")

	out.Reset()
	PrintCacheStatus(&out, schema.CacheStatus{Backend: "none"})
	assert.NotContains(t, out.String(), "Total Entries")

	out.Reset()
	PrintHistoryStatus(&out, schema.HistoryStatus{
		Backend:     "sqlite",
		Connected:   true,
		TotalRuns:   1,
		LastRunID:   1,
		LastRunTime: time.Now(),
		TotalPoints: 1200,
		TableSizes:  map[string]int64{runsTable: 1, pointsTable: 1200},
	})
	assert.Contains(t, out.String(), "Total Points: 1,200")
	assert.Contains(t, out.String(), "sparkline_points: 1,200 rows")
}
