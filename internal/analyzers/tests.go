package analyzers

import (
	"context"

	"github.com/gihwan-dev/codehealth/schema"
)

// TestReliabilityCollector reads coverage and mutation reports found under the project root.
type TestReliabilityCollector struct{}

// NewTestReliabilityCollector returns the report-based test collector.
func NewTestReliabilityCollector() *TestReliabilityCollector {
	return &TestReliabilityCollector{}
}

// Name implements Collaborator.
func (c *TestReliabilityCollector) Name() string { return "test-reliability" }

// Collect implements Collaborator. Every target gets a record; fields stay
// nil when the reports do not cover the file.
func (c *TestReliabilityCollector) Collect(_ context.Context, req Request) Result {
	result := newResult()
	if len(req.Files) == 0 {
		return result
	}

	coverage := LoadCoverageSummary(FindCoverageSummary(req.Root))
	if coverage == nil {
		result.Unavailable = append(result.Unavailable, "coverage-summary.not-found")
	}
	mutation := LoadMutationReport(FindMutationReport(req.Root))
	if mutation == nil {
		result.Unavailable = append(result.Unavailable, "mutation-report.not-found")
	}
	mutationScores := mutation.Scores(req.Root, req.Files)

	for _, rel := range req.Files {
		line, branch, _ := coverage.Lookup(req.Root, rel)
		var patch schema.MetricPatch
		patch.LineCoverage = line
		patch.BranchCoverage = branch
		patch.MutationScore = mutationScores[rel]
		result.ByFile[rel] = patch
	}
	return result
}
