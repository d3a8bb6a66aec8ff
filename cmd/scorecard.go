package cmd

import (
	"github.com/gihwan-dev/codehealth/core"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/iocache"
	"github.com/spf13/cobra"
)

// scorecardCmd blends the metrics document with the optional review.
var scorecardCmd = &cobra.Command{
	Use:   "scorecard [project-root]",
	Short: "Grade a metrics document, optionally with a qualitative review.",
	Long: `Read the quantitative metrics document, select the hotspot files, merge the
qualitative review over them and blend both halves into a final grade.

The final score weighs quantitative 85% and qualitative 15%. A passing
quantitative score is never blended below 50.

Examples:
  # Quantitative only
  codehealth scorecard --quant .codehealth/quantitative-metrics.json

  # With a review and history tracking
  codehealth scorecard --quant quant.json --qual review.yaml --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScorecard(rootCtx, cfg, iocache.Manager.GetHistoryStore()); err != nil {
			contract.LogFatal("Cannot build scorecard", err)
		}
	},
}

// runCmd chains collect and scorecard.
var runCmd = &cobra.Command{
	Use:   "run [project-root]",
	Short: "Collect metrics and grade them in one step.",
	Long: `Run collect, then scorecard on the document collect just wrote.
Accepts the flags of both commands; --quant is ignored.

Examples:
  codehealth run --mode staged --qual review.yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, iocache.Manager.GetHistoryStore()); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}

// toolchainCmd reports whether a full analysis is possible.
var toolchainCmd = &cobra.Command{
	Use:     "toolchain",
	Short:   "Check the host tools a full analysis needs.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteToolchain(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot check toolchain", err)
		}
	},
}
