package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tier4/mapvalidator/core"
	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// checksCmd lists the built-in checks.
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the built-in map checks",
	Long: `List every built-in check whose name matches --checks, with its description.

Examples:
  # List all checks
  mapvalidator checks

  # List lane checks as JSON
  mapvalidator checks --checks '^mapping\.lane\.' --output json`,
	Args:    cobra.NoArgs,
	PreRunE: outputSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteListChecks(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list checks", err)
		}
	},
}

// explainCmd describes one issue code.
var explainCmd = &cobra.Command{
	Use:   "explain <issue-code>",
	Short: "Describe an issue code from the issue catalog",
	Long: `Print the severity, primitive and message template of an issue code.

The message is shown in the language chosen with --language. Use --issues-info
to look codes up in a custom catalog.

Examples:
  mapvalidator explain Lane.SpeedLimitValidity-001
  mapvalidator explain Point.ElevationDeclared-001 --language ja --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return outputSetup(cmd, nil) },
	Run: func(_ *cobra.Command, args []string) {
		entry, err := core.ExplainIssue(cfg, args[0])
		if err != nil {
			contract.LogFatal("Cannot explain issue", err)
		}

		if cfg.Output == schema.JSONOut {
			data, _ := json.MarshalIndent(map[string]any{
				"code":      entry.Code,
				"severity":  entry.Severity,
				"primitive": entry.Subject,
				"language":  cfg.Language,
				"message":   entry.Message(cfg.Language),
			}, "", "  ")
			fmt.Println(string(data))
			return
		}
		_, _ = fmt.Fprintf(os.Stdout, "Code:      %s\n", entry.Code)
		_, _ = fmt.Fprintf(os.Stdout, "Severity:  %s\n", entry.Severity)
		_, _ = fmt.Fprintf(os.Stdout, "Primitive: %s\n", entry.Subject)
		_, _ = fmt.Fprintf(os.Stdout, "Message:   %s\n", entry.Message(cfg.Language))
	},
}
