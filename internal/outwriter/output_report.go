package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/parquet"
	"github.com/tier4/mapvalidator/schema"
)

// Console lines of the text summary.
const (
	noIssuesLine     = "No errors nor warnings were found"
	warningTotalLine = "Total of %d warnings were found\n"
	errorTotalLine   = "Total of %d errors were found\n"
	loadingTitleLine = "Errors found on map loading."
)

// jsonPrerequisite mirrors a prerequisite declaration of the requirements document.
type jsonPrerequisite struct {
	Name            string `json:"name"`
	ForgiveWarnings bool   `json:"forgive_warnings,omitempty"`
}

// jsonValidator is one check of a requirement, annotated with its result.
type jsonValidator struct {
	Name          string             `json:"name"`
	Prerequisites []jsonPrerequisite `json:"prerequisites,omitempty"`
	Status        schema.CheckStatus `json:"status"`
	Passed        bool               `json:"passed"`
	Issues        []schema.Finding   `json:"issues,omitempty"`
}

// jsonRequirement is one requirement annotated with its result.
type jsonRequirement struct {
	ID         string          `json:"id"`
	Passed     bool            `json:"passed"`
	Validators []jsonValidator `json:"validators"`
}

// JSONResults is the results document: the requirements tree annotated with results.
type JSONResults struct {
	Version        string                `json:"version,omitempty"`
	Requirements   []jsonRequirement     `json:"requirements"`
	Passed         bool                  `json:"passed"`
	WarningCount   int                   `json:"warning_count"`
	ErrorCount     int                   `json:"error_count"`
	ValidationInfo schema.ValidationInfo `json:"validation_info"`
}

// PrintReport outputs the validation results, dispatching based on the output format configured.
func PrintReport(report schema.RunReport, set schema.RequirementSet, info schema.ValidationInfo, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, BuildJSONResults(report, set, info))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteFindingsParquet(parquet.ConvertReport(report), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		// Default to the human-readable summary
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg, duration)
		}, "Wrote report")
	}
	return nil
}

// BuildJSONResults annotates the requirements tree with the outcome of every check.
// The document is what --output json writes.
func BuildJSONResults(report schema.RunReport, set schema.RequirementSet, info schema.ValidationInfo) JSONResults {
	out := JSONResults{
		Version:        report.Version,
		Requirements:   make([]jsonRequirement, 0, len(report.Groups)),
		Passed:         report.Passed,
		WarningCount:   report.WarningCount,
		ErrorCount:     report.ErrorCount,
		ValidationInfo: info,
	}
	for _, group := range report.Groups {
		req := jsonRequirement{ID: group.ID, Passed: group.Passed, Validators: make([]jsonValidator, 0, len(group.Checks))}
		for _, outcome := range group.Checks {
			v := jsonValidator{
				Name:   outcome.Name,
				Status: outcome.Status,
				Passed: outcome.Passed,
				Issues: outcome.Findings,
			}
			if spec, ok := set.Spec(outcome.Name); ok {
				for _, edge := range spec.Prerequisites {
					v.Prerequisites = append(v.Prerequisites, jsonPrerequisite{Name: edge.Prerequisite, ForgiveWarnings: edge.ForgiveWarning})
				}
			}
			req.Validators = append(req.Validators, v)
		}
		out.Requirements = append(out.Requirements, req)
	}
	return out
}

// writeReportCSV writes one row per finding of every distinct check.
func writeReportCSV(w io.Writer, report schema.RunReport) error {
	return writeCSVWithHeader(w, findingHeader, func(cw *csv.Writer) error {
		for _, outcome := range report.Outcomes {
			for _, f := range outcome.Findings {
				if err := cw.Write(findingRecord(outcome.Name, outcome.Status, f)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeReportText writes the per-requirement summary, the totals and the findings table.
func writeReportText(w io.Writer, report schema.RunReport, cfg *contract.Config, duration time.Duration) error {
	for _, group := range report.Groups {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", group.ID, statusLabel(group.Passed, cfg)); err != nil {
			return err
		}
		for _, outcome := range group.Checks {
			if _, err := fmt.Fprintf(w, "  - %s: %s\n", outcome.Name, statusLabel(outcome.Passed, cfg)); err != nil {
				return err
			}
		}
	}

	if err := writeTotals(w, report.WarningCount, report.ErrorCount); err != nil {
		return err
	}

	var rows []findingRow
	for _, outcome := range report.Outcomes {
		for _, f := range outcome.Findings {
			rows = append(rows, findingRow{check: outcome.Name, finding: f})
		}
	}
	if len(rows) > 0 {
		if err := writeFindingsTable(w, rows, cfg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Validation %s in %v with %d workers.\n",
		statusLabel(report.Passed, cfg), duration.Round(time.Millisecond), cfg.Workers)
	return err
}

// writeTotals prints the warning and error totals, or the all-clear line.
func writeTotals(w io.Writer, warnings, errors int) error {
	if warnings == 0 && errors == 0 {
		_, err := fmt.Fprintln(w, noIssuesLine)
		return err
	}
	if warnings > 0 {
		if _, err := fmt.Fprintf(w, warningTotalLine, warnings); err != nil {
			return err
		}
	}
	if errors > 0 {
		if _, err := fmt.Fprintf(w, errorTotalLine, errors); err != nil {
			return err
		}
	}
	return nil
}

// findingRow is one line of the findings table; check is empty for loading findings.
type findingRow struct {
	check   string
	finding schema.Finding
}

// writeFindingsTable renders findings with messages truncated to the terminal width.
func writeFindingsTable(w io.Writer, rows []findingRow, cfg *contract.Config) error {
	withCheck := false
	checkWidth := 0
	for _, r := range rows {
		if r.check != "" {
			withCheck = true
			checkWidth = max(checkWidth, len(r.check)+3)
		}
	}
	messageWidth := GetMaxMessageWidth(cfg, checkWidth)

	table := tablewriter.NewWriter(w)
	var headers []string
	if withCheck {
		headers = append(headers, "Check")
	}
	headers = append(headers, "Severity", "Primitive", "ID", "Code", "Message")
	table.Header(headers)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		var row []string
		if withCheck {
			row = append(row, r.check)
		}
		row = append(row,
			severityLabel(r.finding.Severity, cfg),
			string(r.finding.SubjectKind),
			strconv.FormatInt(r.finding.SubjectID, 10),
			r.finding.Code,
			contract.TruncateText(r.finding.Message, messageWidth),
		)
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintLoadingFindings prints the problems found while reading the map.
// They go to stdout next to a text report and to stderr otherwise, so that
// machine-readable output on stdout stays intact.
func PrintLoadingFindings(findings []schema.Finding, cfg *contract.Config) error {
	if len(findings) == 0 {
		return nil
	}
	w := io.Writer(os.Stderr)
	if cfg.Output == schema.TextOut || cfg.Output == "" {
		w = os.Stdout
	}
	return writeLoadingFindings(w, findings, cfg)
}

func writeLoadingFindings(w io.Writer, findings []schema.Finding, cfg *contract.Config) error {
	if _, err := fmt.Fprintln(w, loadingTitleLine); err != nil {
		return err
	}
	rows := make([]findingRow, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, findingRow{finding: f})
	}
	return writeFindingsTable(w, rows, cfg)
}

// PrintValidationHeader prints a concise, 2-line header before a text report.
func PrintValidationHeader(info schema.ValidationInfo, cfg *contract.Config) {
	writeValidationHeader(os.Stdout, info, cfg)
}

func writeValidationHeader(w io.Writer, info schema.ValidationInfo, cfg *contract.Config) {
	requirements := info.MapRequirements.Filename
	if requirements == "" {
		requirements = "ad-hoc"
	}
	if info.MapRequirements.Version != "" {
		requirements = fmt.Sprintf("%s (version %s)", requirements, info.MapRequirements.Version)
	}
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🗺️  Map: %s\n", info.TargetMap)
		_, _ = fmt.Fprintf(w, "📋 Requirements: %s\n", requirements)
		return
	}
	_, _ = fmt.Fprintf(w, "%-14s %s\n", "Map:", info.TargetMap)
	_, _ = fmt.Fprintf(w, "%-14s %s\n", "Requirements:", requirements)
}
