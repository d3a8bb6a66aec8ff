package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/iocache"
	"github.com/gihwan-dev/codehealth/internal/outwriter"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads the history backend settings without the full shared setup.
func historyBackendConfig(cmd *cobra.Command) (schema.DatabaseBackend, string, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return "", "", fmt.Errorf("unable to bind flags: %w", err)
	}
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This avoids project root resolution and collect settings.
func historySetup(cmd *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig(cmd)
	if err != nil {
		return err
	}
	if err := iocache.InitHistory(enabledBackend(backend), connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.UseColors, _ = contract.ParseBoolString(viper.GetString("color"))
	cfg.Width = viper.GetInt("width")
	return nil
}

// historyMigrateSetup does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(cmd *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig(cmd)
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on scorecard history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup. This avoids project validation for simple database operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recorded scorecard history",
	Long: `Manage the scorecard history used for trend tracking and reporting.

When a history backend is set, every scorecard run stores:
- Run metadata (run id, profile, quantitative, qualitative and final scores)
- Per-file hotspot scores and the metrics behind them

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  codehealth history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  codehealth history export --history-backend sqlite --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("history tracking is disabled; set --history-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.NewOutWriter().WriteHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print history status", err)
		}
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scorecard history to Parquet for BI tools and analytics",
	Long: `Export all stored scorecard history to Parquet format.

Writes two files next to --output-file:
- <output-file>.scorecard_runs.parquet - one row per scorecard run
- <output-file>.file_scores.parquet    - one row per file per run

Examples:
  codehealth history export --history-backend sqlite --output-file history
  duckdb -c "SELECT final_grade, count(*) FROM 'history.scorecard_runs.parquet' GROUP BY 1"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded scorecard history",
	Long: `Delete all stored scorecard runs and file scores.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

Examples:
  # Migrate to latest version
  codehealth history migrate --history-backend sqlite

  # Roll back to a specific version
  codehealth history migrate --history-backend sqlite --target-version 1

  # Roll back everything
  codehealth history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate history", err)
		}
	},
}
