package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tier4/mapvalidator/core"
	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/history"
)

// validateCmd validates one map.
var validateCmd = &cobra.Command{
	Use:   "validate <map.osm>",
	Short: "Validate a Lanelet2 map against a requirements document",
	Long: `Load a Lanelet2 map and run every requirement's checks over it.

Checks run in dependency order. A check whose prerequisites did not pass is
gated: it is reported with a single error instead of running. Findings listed
in the exclusion file are dropped before a requirement's verdict is decided.

Without --requirements, every check matching --checks runs as its own
requirement.

The command exits with status 1 when any requirement fails.

Examples:
  # Validate with all built-in checks
  mapvalidator validate lanelet2_map.osm

  # Validate against a requirements document and fail only on errors
  mapvalidator validate lanelet2_map.osm -r requirements.json --fail-on error

  # Write machine-readable results
  mapvalidator validate lanelet2_map.osm -r requirements.hcl --output json --output-file results.json

  # Keep validating while the map is being edited
  mapvalidator validate lanelet2_map.osm -r requirements.json --watch`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Watch {
			ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := core.WatchValidation(ctx, cfg, historyManager, core.ExecuteValidation); err != nil {
				contract.LogFatal("Cannot watch map", err)
			}
			return
		}

		err := core.ExecuteValidation(rootCtx, cfg, historyManager)
		if errors.Is(err, core.ErrValidationFailed) {
			history.CloseStores()
			_ = stopProfiling()
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Cannot validate map", err)
		}
	},
}
