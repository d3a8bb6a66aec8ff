// Package analyzers has the metric collaborators that feed the quantitative document.
// Each collaborator reports a partial metric record per file and a list of
// namespaced entries for the metrics it could not produce.
package analyzers

import (
	"context"
	"fmt"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// Request is the input shared by all collaborators.
type Request struct {
	Root       string
	Files      []string
	WindowDays int
}

// Result is what one collaborator produced.
type Result struct {
	ByFile      map[string]schema.MetricPatch
	Unavailable []string
}

// Collaborator computes one family of metrics.
type Collaborator interface {
	Name() string
	Collect(ctx context.Context, req Request) Result
}

// ToolchainChecker reports whether the full collaborator set can run.
type ToolchainChecker interface {
	Check(ctx context.Context) schema.ToolchainStatus
}

// Suite is the full collaborator set in merge order.
type Suite struct {
	Toolchain  ToolchainChecker
	Extractor  contract.ImportExtractor // nil without tree-sitter
	Structural Collaborator
	Lint       Collaborator
	Types      Collaborator
	Dependency Collaborator
	Churn      Collaborator
	Tests      Collaborator
}

// NewSuite wires the local collaborators for cfg.
func NewSuite(cfg *contract.Config, client contract.GitClient) *Suite {
	ex := NewImportExtractor()
	return &Suite{
		Toolchain:  NewLocalToolchain(),
		Extractor:  ex,
		Structural: NewStructuralCollector(),
		Lint:       NewLintCollector(cfg.LintReport),
		Types:      NewTypeDiagnosticsCollector(cfg.TypeDiagnostics, cfg.AutoDetectTSC),
		Dependency: NewDependencyCollector(ex),
		Churn:      NewChurnCollector(client),
		Tests:      NewTestReliabilityCollector(),
	}
}

// Ordered returns the collaborators in merge order.
func (s *Suite) Ordered() []Collaborator {
	return []Collaborator{s.Structural, s.Lint, s.Types, s.Dependency, s.Churn, s.Tests}
}

// RunsWithoutToolchain reports whether c still runs in degraded mode.
// Churn only needs git history and the test reports are plain files.
func (s *Suite) RunsWithoutToolchain(c Collaborator) bool {
	return c == s.Churn || c == s.Tests
}

// Skipped is the result of a collaborator that did not run because the toolchain is incomplete.
func Skipped(name string) Result {
	return Result{
		ByFile:      map[string]schema.MetricPatch{},
		Unavailable: []string{fmt.Sprintf("%s.skipped:toolchain-not-ready", name)},
	}
}

// newResult returns an empty result ready for filling.
func newResult() Result {
	return Result{ByFile: map[string]schema.MetricPatch{}, Unavailable: []string{}}
}
