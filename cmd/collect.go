package cmd

import (
	"github.com/gihwan-dev/codehealth/core"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/iocache"
	"github.com/spf13/cobra"
)

// collectCmd computes the quantitative metrics document.
var collectCmd = &cobra.Command{
	Use:   "collect [project-root]",
	Short: "Collect quantitative metrics for the changed files.",
	Long: `Resolve the changed files, expand them through their relative imports and
measure them with every available collaborator.

Collaborators:
- ast              - structural complexity parsed with tree-sitter
- eslint           - lint complexity from a --lint-report file
- typescript       - type diagnostics from tsc
- dependency       - fan-in, fan-out and cycles of the import graph
- churn            - lines changed within the window, from git
- test-reliability - coverage and mutation reports

Without the tree-sitter parsers only churn and test-reliability run and the
import closure is skipped. Every gap is listed in the unavailable-metrics document.

The lint report is YAML or JSON with one entry per file. A file's cyclomatic value
is the largest "complexity" finding and its cognitive value the largest
"sonarjs/cognitive-complexity" finding:

  files:
    - path: src/a.ts
      findings:
        - {ruleId: complexity, value: 12}
        - {ruleId: sonarjs/cognitive-complexity, value: 18}

Examples:
  # Score uncommitted work
  codehealth collect

  # Score a feature branch against main
  codehealth collect --mode branch --target main

  # Score explicit files with a tighter closure
  codehealth collect --mode files --target "src/a.ts,src/b.ts" --closure-limit 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCollect(rootCtx, cfg, iocache.Manager.GetHistoryStore()); err != nil {
			contract.LogFatal("Cannot collect metrics", err)
		}
	},
}
