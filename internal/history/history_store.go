package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// Keys of the config params that are also stored in their own columns.
const (
	MapFileParam      = "map_file"
	RequirementsParam = "requirements"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled history
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend, schema.PostgreSQLBackend:
			connDetail = fmt.Sprintf("Check that %s is running and the connection string is correct. Ensure user/password are valid.", backend)
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{findingsTable, getCreateFindingsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for mapvalidator_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				map_file VARCHAR(1024) NOT NULL,
				requirements VARCHAR(1024) NOT NULL,
				passed BOOLEAN,
				total_checks INT,
				warning_count INT,
				error_count INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				map_file TEXT NOT NULL,
				requirements TEXT NOT NULL,
				passed BOOLEAN,
				total_checks INT,
				warning_count INT,
				error_count INT,
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
				map_file TEXT NOT NULL,
				requirements TEXT NOT NULL,
				passed INTEGER,
				total_checks INTEGER,
				warning_count INTEGER,
				error_count INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFindingsQuery returns the CREATE TABLE query for mapvalidator_findings.
func getCreateFindingsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(findingsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				finding_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_id BIGINT NOT NULL,
				check_name VARCHAR(255) NOT NULL,
				check_status VARCHAR(32) NOT NULL,
				severity VARCHAR(16) NOT NULL,
				primitive VARCHAR(32) NOT NULL,
				primitive_id BIGINT NOT NULL,
				issue_code VARCHAR(128) NOT NULL,
				message TEXT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				finding_id BIGSERIAL PRIMARY KEY,
				run_id BIGINT NOT NULL,
				check_name TEXT NOT NULL,
				check_status TEXT NOT NULL,
				severity TEXT NOT NULL,
				primitive TEXT NOT NULL,
				primitive_id BIGINT NOT NULL,
				issue_code TEXT NOT NULL,
				message TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				finding_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL,
				check_name TEXT NOT NULL,
				check_status TEXT NOT NULL,
				severity TEXT NOT NULL,
				primitive TEXT NOT NULL,
				primitive_id INTEGER NOT NULL,
				issue_code TEXT NOT NULL,
				message TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	mapFile, _ := configParams[MapFileParam].(string)
	requirements, _ := configParams[RequirementsParam].(string)

	quotedTableName := quoteTableName(runsTable, hs.backend)
	values := strings.Join(placeholders(hs.backend, 4), ", ")
	args := []any{formatTime(startTime, hs.backend), mapFile, requirements, string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, map_file, requirements, config_params) VALUES (%s) RETURNING run_id`, quotedTableName, values)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, map_file, requirements, config_params) VALUES (%s)`, quotedTableName, values)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordCheck stores every finding of one check outcome.
func (hs *HistoryStoreImpl) RecordCheck(runID int64, outcome schema.CheckOutcome) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(outcome.Findings) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(findingsTable, hs.backend)
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, check_name, check_status, severity, primitive, primitive_id, issue_code, message)
		VALUES (%s)
	`, quotedTableName, strings.Join(placeholders(hs.backend, 8), ", "))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range outcome.Findings {
		if _, err := stmt.Exec(runID, outcome.Name, string(outcome.Status), f.Severity.String(),
			string(f.SubjectKind), f.SubjectID, f.Code, f.Message); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert finding of %s: %w", outcome.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit findings of %s: %w", outcome.Name, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	startTime, err := hs.startTime(runID)
	if err != nil {
		return err
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	ph := placeholders(hs.backend, 7)
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, passed = %s, total_checks = %s, warning_count = %s, error_count = %s WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3], ph[4], ph[5], ph[6])
	args := []any{
		formatTime(endTime, hs.backend), durationMs, summary.Passed, summary.TotalChecks,
		summary.WarningCount, summary.ErrorCount, runID,
	}
	if _, err := hs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

func (hs *HistoryStoreImpl) startTime(runID int64) (time.Time, error) {
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoteTableName(runsTable, hs.backend), placeholders(hs.backend, 1)[0])
	row := hs.db.QueryRow(query, runID)

	// Handle different time storage formats per backend
	if hs.backend == schema.SQLiteBackend {
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start_time: %w", err)
		}
		return startTime, nil
	}
	var startTime time.Time
	if err := row.Scan(&startTime); err != nil {
		return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	return startTime, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
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
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE passed = %s", quotedRuns, placeholders(hs.backend, 1)[0])
		if err := hs.db.QueryRow(failedQuery, false).Scan(&status.FailedRuns); err != nil {
			return status, fmt.Errorf("failed to get failed runs: %w", err)
		}

		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		lastTime, err := hs.scanTime(hs.db.QueryRow(lastRunQuery), &status.LastRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastTime

		var oldestID int64
		oldestRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldestTime, err := hs.scanTime(hs.db.QueryRow(oldestRunQuery), &oldestID)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime
	}

	for _, table := range []string{runsTable, findingsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalFindings = status.TableSizes[findingsTable]

	return status, nil
}

// scanTime scans an id and a start_time column, whatever the backend stores it as.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row, id *int64) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(id, &s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(id, &t)
	return t, err
}

// GetAllRuns retrieves all runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, map_file, requirements,
		passed, total_checks, warning_count, error_count, config_params FROM %s ORDER BY run_id`,
		quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.DurationMs, &record.MapFile,
				&record.Requirements, &record.Passed, &record.TotalChecks, &record.WarningCount,
				&record.ErrorCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.DurationMs, &record.MapFile,
				&record.Requirements, &record.Passed, &record.TotalChecks, &record.WarningCount,
				&record.ErrorCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllFindings retrieves all findings from the store, ordered by run.
func (hs *HistoryStoreImpl) GetAllFindings() ([]schema.FindingRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, check_name, check_status, severity, primitive, primitive_id, issue_code, message
		FROM %s ORDER BY run_id, finding_id`, quoteTableName(findingsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FindingRecord
	for rows.Next() {
		var record schema.FindingRecord
		if err := rows.Scan(&record.RunID, &record.CheckName, &record.CheckStatus, &record.Severity,
			&record.SubjectKind, &record.SubjectID, &record.Code, &record.Message); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating findings: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}
