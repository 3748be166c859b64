package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	FailedRuns    int              `json:"failed_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalFindings int64            `json:"total_findings"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the mapvalidator_runs table.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int64
	MapFile      string
	Requirements string
	Passed       *bool
	TotalChecks  *int32
	WarningCount *int32
	ErrorCount   *int32
	ConfigParams *string
}

// FindingRecord represents a row from the mapvalidator_findings table.
type FindingRecord struct {
	RunID       int64
	CheckName   string
	CheckStatus string
	Severity    string
	SubjectKind string
	SubjectID   int64
	Code        string
	Message     string
}
