// Package parquet provides data structures and functions for exporting validation
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tier4/mapvalidator/schema"
)

// Run represents a single recorded validation run.
// This struct maps to the mapvalidator_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	MapFile      string `parquet:"map_file,snappy"`
	Requirements string `parquet:"requirements,snappy"`

	// Passed is nil for runs that never completed
	Passed       *bool  `parquet:"passed,optional,snappy"`
	TotalChecks  *int32 `parquet:"total_checks,optional,snappy"`
	WarningCount *int32 `parquet:"warning_count,optional,snappy"`
	ErrorCount   *int32 `parquet:"error_count,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Finding represents one finding of a check, either recorded in run history or
// taken from the report of the current run.
type Finding struct {
	// RunID references the parent run, 0 for the current run
	RunID int64 `parquet:"run_id,snappy"`

	CheckName   string `parquet:"check_name,dict,snappy"`
	CheckStatus string `parquet:"check_status,dict,snappy"`
	Severity    string `parquet:"severity,dict,snappy"`
	Primitive   string `parquet:"primitive,dict,snappy"`
	PrimitiveID int64  `parquet:"primitive_id,snappy"`
	IssueCode   string `parquet:"issue_code,dict,snappy"`
	Message     string `parquet:"message,snappy"`
}

// writeParquet writes all rows to a new Parquet file at outputPath.
// The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFindingsParquet writes a slice of Finding structs to a Parquet file.
func WriteFindingsParquet(data []Finding, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			DurationMs:   record.DurationMs,
			MapFile:      record.MapFile,
			Requirements: record.Requirements,
			Passed:       record.Passed,
			TotalChecks:  record.TotalChecks,
			WarningCount: record.WarningCount,
			ErrorCount:   record.ErrorCount,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertFindingRecords converts schema.FindingRecord to Finding for Parquet export.
func ConvertFindingRecords(records []schema.FindingRecord) []Finding {
	result := make([]Finding, len(records))
	for i, record := range records {
		result[i] = Finding{
			RunID:       record.RunID,
			CheckName:   record.CheckName,
			CheckStatus: record.CheckStatus,
			Severity:    record.Severity,
			Primitive:   record.SubjectKind,
			PrimitiveID: record.SubjectID,
			IssueCode:   record.Code,
			Message:     record.Message,
		}
	}
	return result
}

// ConvertReport flattens the findings of every distinct check of a report.
func ConvertReport(report schema.RunReport) []Finding {
	var result []Finding
	for _, outcome := range report.Outcomes {
		for _, f := range outcome.Findings {
			result = append(result, Finding{
				CheckName:   outcome.Name,
				CheckStatus: string(outcome.Status),
				Severity:    f.Severity.String(),
				Primitive:   string(f.SubjectKind),
				PrimitiveID: f.SubjectID,
				IssueCode:   f.Code,
				Message:     f.Message,
			})
		}
	}
	return result
}
