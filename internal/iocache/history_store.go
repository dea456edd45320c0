package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/schema"
)

// Table names for run history.
const (
	runsTable   = "sparkline_runs"
	pointsTable = "sparkline_points"
)

// runColumns lists the sparkline_runs columns read back by GetAllRuns.
const runColumns = `run_id, start_time, end_time, run_duration_ms, source, measure, fine_dimension,
	coarse_dimension, period_name, current_total, previous_total, delta, delta_percent,
	total_points, sampled_points, config_params`

// HistoryStoreImpl records one row per summarize run plus its sampled points.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the history database and makes sure its tables exist.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	for _, table := range []struct{ name, query string }{
		{runsTable, getCreateRunsQuery(backend)},
		{pointsTable, getCreatePointsQuery(backend)},
	} {
		if _, err := db.Exec(table.query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// getCreateRunsQuery returns the CREATE TABLE query for sparkline_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				source VARCHAR(512) NOT NULL,
				measure VARCHAR(255),
				fine_dimension VARCHAR(255),
				coarse_dimension VARCHAR(255),
				period_name VARCHAR(50),
				current_total DOUBLE,
				previous_total DOUBLE,
				delta DOUBLE,
				delta_percent DOUBLE,
				total_points INT,
				sampled_points INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				source TEXT NOT NULL,
				measure TEXT,
				fine_dimension TEXT,
				coarse_dimension TEXT,
				period_name TEXT,
				current_total DOUBLE PRECISION,
				previous_total DOUBLE PRECISION,
				delta DOUBLE PRECISION,
				delta_percent DOUBLE PRECISION,
				total_points INT,
				sampled_points INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				source TEXT NOT NULL,
				measure TEXT,
				fine_dimension TEXT,
				coarse_dimension TEXT,
				period_name TEXT,
				current_total REAL,
				previous_total REAL,
				delta REAL,
				delta_percent REAL,
				total_points INTEGER,
				sampled_points INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreatePointsQuery returns the CREATE TABLE query for sparkline_points.
func getCreatePointsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(pointsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				point_key VARCHAR(255) NOT NULL,
				label VARCHAR(255) NOT NULL,
				value DOUBLE NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				point_key TEXT NOT NULL,
				label TEXT NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				position INTEGER NOT NULL,
				point_key TEXT NOT NULL,
				label TEXT NOT NULL,
				value REAL NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)
	}
}

// BeginRun inserts a new run and returns its ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	args := []any{formatTime(startTime, hs.backend), source, string(configJSON)}

	var runID int64
	if hs.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	} else {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		if result, err = hs.db.Exec(query, args...); err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stores the outcome of a run and its duration.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, outcome schema.RunOutcome) error {
	if hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := scanTime(hs.db.QueryRow(selectQuery, runID), hs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	columns := []string{
		"end_time", "run_duration_ms", "measure", "fine_dimension", "coarse_dimension", "period_name",
		"current_total", "previous_total", "delta", "delta_percent", "total_points", "sampled_points",
	}
	args := []any{
		formatTime(endTime, hs.backend), endTime.Sub(startTime).Milliseconds(),
		outcome.Measure, outcome.FineDimension, outcome.CoarseDimension, outcome.PeriodName,
		outcome.CurrentTotal, outcome.PreviousTotal, outcome.Delta, outcome.DeltaPercent,
		outcome.TotalPoints, outcome.SampledPoints,
	}

	assignments := ""
	for i, col := range columns {
		if i > 0 {
			assignments += ", "
		}
		assignments += fmt.Sprintf("%s = %s", col, placeholder(hs.backend, i+1))
	}
	updateQuery := fmt.Sprintf(`UPDATE %s SET %s WHERE run_id = %s`,
		quotedTableName, assignments, placeholder(hs.backend, len(columns)+1))

	if _, err := hs.db.Exec(updateQuery, append(args, runID)...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordPoints stores the sampled points of a run in a single transaction.
func (hs *HistoryStoreImpl) RecordPoints(runID int64, points []schema.PointRecord) error {
	if hs.db == nil || len(points) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, position, point_key, label, value) VALUES (%s)`,
		quoteTableName(pointsTable, hs.backend), placeholders(hs.backend, 5))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range points {
		if _, err := stmt.Exec(runID, p.Position, p.PointKey, p.Label, p.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert point %d of run %d: %w", p.Position, runID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit points: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		var lastTime any
		if err := row.Scan(&status.LastRunID, timeDest(&lastTime, hs.backend)); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		t, err := parseTimeValue(lastTime)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = t

		oldest, err := scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)), hs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{runsTable, pointsTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalPoints = int(status.TableSizes[pointsTable])
	return status, nil
}

// GetAllRuns retrieves every run ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	rows, err := hs.db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id", runColumns, quoteTableName(runsTable, hs.backend)))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		var start any
		var end any
		if err := rows.Scan(&r.RunID, timeDest(&start, hs.backend), timeDest(&end, hs.backend), &r.RunDurationMs,
			&r.Source, &r.Measure, &r.FineDimension, &r.CoarseDimension, &r.PeriodName,
			&r.CurrentTotal, &r.PreviousTotal, &r.Delta, &r.DeltaPercent,
			&r.TotalPoints, &r.SampledPoints, &r.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartTime, err = parseTimeValue(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			t, err := parseTimeValue(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			r.EndTime = &t
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllPoints retrieves every recorded point ordered by run and position.
func (hs *HistoryStoreImpl) GetAllPoints() ([]schema.PointRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, position, point_key, label, value FROM %s ORDER BY run_id, position",
		quoteTableName(pointsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PointRecord
	for rows.Next() {
		var p schema.PointRecord
		if err := rows.Scan(&p.RunID, &p.Position, &p.PointKey, &p.Label, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the storage format of the backend.
// SQLite keeps times as RFC3339 text; the others use native datetime columns.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// timeDest returns a scan destination suitable for a time column of the backend.
func timeDest(dst *any, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return dst
	}
	return &nullTime{dst: dst}
}

// nullTime scans a nullable native datetime into an any slot.
type nullTime struct {
	dst *any
}

func (n *nullTime) Scan(src any) error {
	var nt sql.NullTime
	if err := nt.Scan(src); err != nil {
		return err
	}
	if nt.Valid {
		*n.dst = nt.Time
	} else {
		*n.dst = nil
	}
	return nil
}

// parseTimeValue turns a scanned time column into a time.Time.
func parseTimeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

// scanTime scans a single time column from a row.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	var v any
	if err := row.Scan(timeDest(&v, backend)); err != nil {
		return time.Time{}, err
	}
	return parseTimeValue(v)
}
