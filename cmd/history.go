package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tier4/mapvalidator/core"
	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/history"
	"github.com/tier4/mapvalidator/schema"
)

// historyBackendFromViper reads and checks the history backend settings.
func historyBackendFromViper() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("run history is disabled. set --history-backend to sqlite, mysql or postgresql")
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return initHistory()
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrations.
// It does not open the store, since migrations manage their own connection.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations require a database backend. set --history-backend to sqlite, mysql or postgresql")
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup used by validate. No map is loaded for these commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the validation run history",
	Long: `Manage the record of past validation runs.

When --history-backend is set, every validation run stores its settings, the
outcome of each check and every finding. This lets you follow how a map's
quality changes across edits.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics and connection info
  runs    - List recorded runs
  export  - Export runs and findings to Parquet files
  clear   - Remove all recorded runs
  migrate - Apply or roll back schema migrations

Examples:
  # Check history status for the default SQLite database
  mapvalidator history status --history-backend sqlite

  # List runs as CSV
  mapvalidator history runs --history-backend sqlite --output csv`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show information about the run history store.

Displays:
- Backend type and connection status
- Total number of runs and findings
- Last and oldest run timestamps
- Run counts per map

Examples:
  mapvalidator history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyRunsCmd lists recorded runs.
var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded validation runs",
	Long: `List every recorded validation run, oldest first.

Examples:
  mapvalidator history runs --history-backend sqlite
  mapvalidator history runs --history-backend sqlite --output json --output-file runs.json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := outputSetup(cmd, args); err != nil {
			return err
		}
		return historySetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryRuns(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
	},
}

// historyExportCmd exports run history.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and findings to Parquet files",
	Long: `Export the run history to two Parquet files for analysis in other tools.

The value of --output-file is used as a prefix:
  <prefix>.runs.parquet      one row per run
  <prefix>.findings.parquet  one row per recorded finding

Examples:
  mapvalidator history export --history-backend sqlite --output-file history`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(os.Stdout, history.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded validation runs",
	Long: `Delete every recorded run and finding from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Clear SQLite history
  mapvalidator history clear --history-backend sqlite

  # Clear PostgreSQL history (set connection string via env variable)
  MAPVALIDATOR_HISTORY_BACKEND=postgresql MAPVALIDATOR_HISTORY_DB_CONNECT="..." mapvalidator history clear`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := history.GetDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			dbPath = cfg.HistoryDBConnect
		}
		if err := history.ClearHistory(cfg.HistoryBackend, dbPath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd applies schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back run history schema migrations",
	Long: `Bring the run history schema to the latest or a given version.

Use --target-version to pick a version:
  -1  migrate to the latest version (default)
   0  roll back every migration

Examples:
  mapvalidator history migrate --history-backend sqlite
  mapvalidator history migrate --history-backend mysql --history-db-connect "user:pass@tcp(localhost:3306)/maps" --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate run history", err)
		}
		fmt.Println("Run history migrated successfully.")
	},
}
