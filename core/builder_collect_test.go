package core

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/gihwan-dev/codehealth/internal/analyzers"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollaborator struct {
	name   string
	result analyzers.Result
	calls  atomic.Int32
	files  []string
}

func (s *stubCollaborator) Name() string { return s.name }

func (s *stubCollaborator) Collect(_ context.Context, req analyzers.Request) analyzers.Result {
	s.calls.Add(1)
	s.files = req.Files
	return s.result
}

type stubToolchain struct {
	status schema.ToolchainStatus
}

func (s stubToolchain) Check(context.Context) schema.ToolchainStatus { return s.status }

func unavailableOnly(entries ...string) analyzers.Result {
	return analyzers.Result{ByFile: map[string]schema.MetricPatch{}, Unavailable: entries}
}

// stubSuite wires named stubs in merge order.
func stubSuite(status schema.ToolchainStatus, ex contract.ImportExtractor) (*analyzers.Suite, map[string]*stubCollaborator) {
	stubs := map[string]*stubCollaborator{
		"ast": {name: "ast", result: analyzers.Result{ByFile: map[string]schema.MetricPatch{
			"src/a.ts": {CyclomaticApprox: schema.Float(4)},
		}}},
		"eslint":     {name: "eslint", result: unavailableOnly("eslint.report-missing")},
		"typescript": {name: "typescript", result: unavailableOnly("typescript.tsc-not-found")},
		"dependency": {name: "dependency", result: unavailableOnly()},
		"churn": {name: "churn", result: analyzers.Result{ByFile: map[string]schema.MetricPatch{
			"src/a.ts": {FileMetrics: schema.FileMetrics{ChurnLines: schema.Int(60)}},
		}}},
		"test-reliability": {name: "test-reliability", result: unavailableOnly("coverage-summary.not-found", "eslint.report-missing")},
	}
	return &analyzers.Suite{
		Toolchain:  stubToolchain{status: status},
		Extractor:  ex,
		Structural: stubs["ast"],
		Lint:       stubs["eslint"],
		Types:      stubs["typescript"],
		Dependency: stubs["dependency"],
		Churn:      stubs["churn"],
		Tests:      stubs["test-reliability"],
	}, stubs
}

func collectConfig(root string) *contract.Config {
	return &contract.Config{
		ProjectRoot:  root,
		Workers:      2,
		Profile:      schema.BalancedProfile,
		Mode:         schema.FilesMode,
		Target:       "src/a.ts",
		WindowDays:   90,
		ClosureLimit: 300,
		Calibration:  schema.DefaultCalibration(),
	}
}

func TestCollect_FullAnalysis(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/b.ts")
	ex := mapExtractor{imports: map[string][]string{"src/a.ts": {"./b"}}}
	suite, stubs := stubSuite(schema.ToolchainStatus{Ready: true}, ex)

	doc, err := collectWith(context.Background(), collectConfig(root), &contract.MockGitClient{}, suite)
	require.NoError(t, err)

	assert.Equal(t, schema.FullAnalysis, doc.AnalysisMode)
	assert.Equal(t, schema.QuantSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, 1, doc.AnalysisScope.SeedFileCount)
	assert.Equal(t, 2, doc.AnalysisScope.AnalyzedFileCount)
	for name, stub := range stubs {
		assert.EqualValues(t, 1, stub.calls.Load(), name)
		assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, stub.files, name)
	}

	require.Len(t, doc.Files, 2)
	a := doc.Files[0]
	assert.Equal(t, "src/a.ts", a.Path)
	assert.Equal(t, 4.0, *a.Metrics.Cyclomatic)
	assert.Equal(t, 60, *a.Metrics.ChurnLines)
	// 4*3*0.30 + 60/8*0.20
	assert.InDelta(t, 5.1, *a.HotspotScore, 0.001)
	assert.Equal(t, 0.0, *doc.Files[1].HotspotScore)

	assert.Equal(t, []string{
		"eslint.report-missing",
		"typescript.tsc-not-found",
		"coverage-summary.not-found",
		"axis.typeSafety.not-enough-data",
		"axis.testReliability.not-enough-data",
	}, doc.UnavailableMetrics)
}

func TestCollect_DegradedAnalysis(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/b.ts")
	ex := mapExtractor{imports: map[string][]string{"src/a.ts": {"./b"}}}
	status := schema.ToolchainStatus{Ready: false, MissingPackages: []string{"tree-sitter-typescript"}}
	suite, stubs := stubSuite(status, ex)

	doc, err := collectWith(context.Background(), collectConfig(root), &contract.MockGitClient{}, suite)
	require.NoError(t, err)

	assert.Equal(t, schema.DegradedAnalysis, doc.AnalysisMode)
	for _, name := range []string{"ast", "eslint", "typescript", "dependency"} {
		assert.Zero(t, stubs[name].calls.Load(), name)
	}
	assert.EqualValues(t, 1, stubs["churn"].calls.Load())
	assert.EqualValues(t, 1, stubs["test-reliability"].calls.Load())
	assert.Equal(t, []string{"src/a.ts"}, stubs["churn"].files, "no closure without parsers")

	require.Len(t, doc.Files, 1)
	assert.Nil(t, doc.Files[0].Metrics.Cyclomatic)

	assert.Equal(t, []string{
		"toolchain.missing:tree-sitter-typescript",
		"import-closure.disabled:missing-ast-toolchain",
		"ast.skipped:toolchain-not-ready",
		"eslint.skipped:toolchain-not-ready",
		"typescript.skipped:toolchain-not-ready",
		"dependency.skipped:toolchain-not-ready",
		"coverage-summary.not-found",
		"eslint.report-missing",
		"axis.complexity.not-enough-data",
		"axis.typeSafety.not-enough-data",
		"axis.testReliability.not-enough-data",
	}, doc.UnavailableMetrics)
}

func TestCollect_TruncatedClosure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/b.ts", "src/c.ts")
	ex := mapExtractor{imports: map[string][]string{"src/a.ts": {"./b"}, "src/b.ts": {"./c"}}}
	suite, _ := stubSuite(schema.ToolchainStatus{Ready: true}, ex)
	cfg := collectConfig(root)
	cfg.ClosureLimit = 2

	doc, err := collectWith(context.Background(), cfg, &contract.MockGitClient{}, suite)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.AnalysisScope.AnalyzedFileCount)
	require.NotEmpty(t, doc.UnavailableMetrics)
	assert.Equal(t, "import-closure.truncated: limit=2, seeds=1", doc.UnavailableMetrics[0])
}

func TestCollect_UnknownMissingPackages(t *testing.T) {
	suite, _ := stubSuite(schema.ToolchainStatus{Ready: false}, nil)
	cfg := collectConfig(t.TempDir())

	doc, err := collectWith(context.Background(), cfg, &contract.MockGitClient{}, suite)
	require.NoError(t, err)
	assert.Equal(t, "toolchain.missing:unknown-packages", doc.UnavailableMetrics[0])
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	suite, _ := stubSuite(schema.ToolchainStatus{Ready: true}, nil)

	_, err := collectWith(ctx, collectConfig(t.TempDir()), &contract.MockGitClient{}, suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metric collection interrupted")
}

func TestDedupeUnavailable(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupeUnavailable([]string{"a", "", "b", "a"}))
	assert.Empty(t, dedupeUnavailable(nil))
}
