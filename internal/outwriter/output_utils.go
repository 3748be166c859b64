package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// statusLabel returns the Passed/Failed label, colored when colors are enabled.
func statusLabel(passed bool, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorStatus(passed)
	}
	return contract.GetPlainStatus(passed)
}

// severityLabel returns the severity name, colored when colors are enabled.
func severityLabel(sev schema.Severity, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorSeverity(sev)
	}
	return sev.String()
}

// findingRecord flattens one finding of a check into CSV columns.
func findingRecord(check string, status schema.CheckStatus, f schema.Finding) []string {
	return []string{
		check,
		string(status),
		f.Severity.String(),
		string(f.SubjectKind),
		strconv.FormatInt(f.SubjectID, 10),
		f.Code,
		f.Message,
	}
}

// findingHeader is the CSV header matching findingRecord.
var findingHeader = []string{"check", "status", "severity", "primitive", "id", "issue_code", "message"}

// optionalInt formats a nullable integer, empty when nil.
func optionalInt[T int32 | int64](v *T) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(int64(*v), 10)
}
