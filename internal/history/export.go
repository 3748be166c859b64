package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/parquet"
)

// Suffixes appended to the export prefix.
const (
	RunsExportSuffix     = ".runs.parquet"
	FindingsExportSuffix = ".findings.parquet"
)

// ExecuteHistoryExport writes every recorded run and finding to two Parquet files
// named after outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total findings: %d\n", status.TotalFindings)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	findings, err := store.GetAllFindings()
	if err != nil {
		return fmt.Errorf("failed to retrieve findings: %w", err)
	}

	runsFile := outputFile + RunsExportSuffix
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	findingsFile := outputFile + FindingsExportSuffix
	parquetFindings := parquet.ConvertFindingRecords(findings)
	if err := parquet.WriteFindingsParquet(parquetFindings, findingsFile); err != nil {
		return fmt.Errorf("failed to write findings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d findings to: %s\n", len(parquetFindings), findingsFile)

	return nil
}
