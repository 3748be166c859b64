package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// PrintChecks outputs the registered checks, dispatching based on the output format configured.
func PrintChecks(checks []schema.CheckInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, checks)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "description"}, func(cw *csv.Writer) error {
				for _, c := range checks {
					if err := cw.Write([]string{c.Name, c.Description}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChecksTable(w, checks, cfg)
		}, "Wrote table")
	}
}

func writeChecksTable(w io.Writer, checks []schema.CheckInfo, cfg *contract.Config) error {
	if len(checks) == 0 {
		filter := contract.DefaultChecks
		if cfg.CheckFilter != nil {
			filter = cfg.CheckFilter.String()
		}
		_, err := fmt.Fprintf(w, "No checks found matching to '%s'\n", filter)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Description"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})
	data := make([][]string, 0, len(checks))
	for _, c := range checks {
		data = append(data, []string{c.Name, c.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d checks\n", len(checks))
	return err
}

// PrintRuns outputs recorded validation runs, dispatching based on the output format configured.
func PrintRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, runHeader, func(cw *csv.Writer) error {
				for _, r := range runs {
					if err := cw.Write(runRecord(r, false, cfg)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs, cfg)
		}, "Wrote table")
	}
}

var runHeader = []string{"run", "started", "duration_ms", "map", "requirements", "result", "checks", "warnings", "errors"}

// runRecord flattens one run; unfinished runs have an empty result.
func runRecord(r schema.RunRecord, colored bool, cfg *contract.Config) []string {
	result := ""
	if r.Passed != nil {
		if colored {
			result = statusLabel(*r.Passed, cfg)
		} else {
			result = contract.GetPlainStatus(*r.Passed)
		}
	}
	mapFile := r.MapFile
	if colored {
		mapFile = contract.ShortMapName(mapFile)
	}
	return []string{
		strconv.FormatInt(r.RunID, 10),
		r.StartTime.Local().Format(contract.DateTimeFormat),
		optionalInt(r.DurationMs),
		mapFile,
		r.Requirements,
		result,
		optionalInt(r.TotalChecks),
		optionalInt(r.WarningCount),
		optionalInt(r.ErrorCount),
	}
}

func writeRunsTable(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No validation runs recorded")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Duration (ms)", "Map", "Requirements", "Result", "Checks", "Warnings", "Errors"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(runs))
	for _, r := range runs {
		data = append(data, runRecord(r, true, cfg))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs))
	return err
}
