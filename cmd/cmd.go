// Package cmd defines the command-line interface for codehealth.
package cmd

import (
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(scorecardCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(toolchainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Summary format: text or json")
	rootCmd.PersistentFlags().String("profile", string(schema.BalancedProfile), "Scoring profile: balanced or static or strict")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of collaborators to run concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	addCollectFlags(collectCmd.Flags())
	addScorecardFlags(scorecardCmd.Flags())
	addCollectFlags(runCmd.Flags())
	addScorecardFlags(runCmd.Flags())

	historyExportCmd.Flags().String("output-file", "", "Base path for the exported Parquet files")
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}

// addCollectFlags registers the change-set and collect output flags.
// Flags are bound to Viper by the command that runs.
func addCollectFlags(fs *pflag.FlagSet) {
	fs.String("mode", string(schema.WorkingMode), "Change set: working or staged or branch or range or files")
	fs.String("target", "", "Base branch (branch), commit range (range) or file list (files)")
	fs.Int("window-days", contract.DefaultWindowDays, "Churn window in days")
	fs.Int("closure-limit", contract.DefaultClosureLimit, "Maximum number of files in the import closure")
	fs.String("out", "", "Path of the quantitative metrics document")
	fs.String("out-unavailable", "", "Path of the unavailable-metrics document")
	fs.String("lint-report", "", "lint-metrics report (YAML or JSON): {files: [{path, findings: [{ruleId, value}]}]}")
	fs.String("type-diagnostics", "", "tsc output to read type diagnostics from")
	fs.String("auto-detect-tsc", "yes", "Run tsc --noEmit when no type diagnostics file is given (yes/no)")
}

// addScorecardFlags registers the scorecard input and output flags.
func addScorecardFlags(fs *pflag.FlagSet) {
	fs.String("quant", "", "Quantitative metrics document (required for scorecard)")
	fs.String("qual", "", "Qualitative review in YAML or JSON")
	fs.String("out-json", contract.DefaultResultJSON, "Path of the scorecard result document")
	fs.String("out-md", contract.DefaultResultMD, "Path of the markdown report")
}
