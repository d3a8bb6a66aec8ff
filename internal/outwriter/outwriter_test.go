package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScorecard() *schema.ScorecardResult {
	file := "src/a.ts"
	line := 3
	return &schema.ScorecardResult{
		SchemaVersion: schema.ScorecardSchemaVersion,
		RunID:         "run-1",
		GeneratedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Profile:       schema.BalancedProfile,
		Weights:       schema.BlendWeights{Quantitative: 0.85, Qualitative: 0.15},
		Quantitative:  schema.QuantitativeBlock{Score: 92, Grade: "A", Source: "direct", Axes: []schema.QuantAxis{}},
		QualitativeOverlay: schema.QualitativeOverlay{
			HotspotSelection: schema.HotspotSelection{
				TotalFileCount:    3,
				EligibleFileCount: 1,
				TopPercent:        20,
				Files:             []schema.HotspotEntry{{Path: "src/a.ts", Score: 71.5}},
			},
			Criteria: []schema.CriterionResult{
				{ID: schema.IntentClarity, Label: "Intent Clarity", Score: schema.Float(3), Status: schema.ScoredStatus, EvidenceCount: 2},
				{ID: schema.LocalReasoning, Label: "Local Reasoning", Status: schema.NotAvailableStatus, Reason: "no evaluation data"},
			},
			Evidence: []schema.EvidenceRecord{},
		},
		Final:              schema.FinalScore{Score: 92, Grade: "A", Notes: []string{"note"}},
		CrossSignals:       []string{"signal one"},
		CriticalFlags:      []schema.CriticalFlag{{Type: "t", Message: "m", File: &file, Line: &line, Severity: schema.CriticalSeverity}},
		UnavailableMetrics: []string{"u"},
		Files:              []schema.FileEntry{},
	}
}

func TestRenderMarkdown(t *testing.T) {
	expected := `# Code Health Result

## Summary

- Profile: balanced
- Quantitative score: 92 (A)
- Qualitative score: N/A
- Final score: 92 (A)
- Hotspot files: 1/3

## Qualitative Overlay

| Criterion | Score (0-4) | Status | Evidence | Note |
|---|---:|---|---:|---|
| Intent Clarity | 3.00 | scored | 2 |  |
| Local Reasoning | N/A | N/A | 0 | no evaluation data |

### Hotspot Files

- src/a.ts (hotspotScore: 71.5)

## Cross Signals

- signal one

## Critical Flags

- [t] m (src/a.ts:3)

## Unavailable Metrics

- u

`
	assert.Equal(t, expected, RenderMarkdown(sampleScorecard()))
}

func TestRenderMarkdown_EmptySections(t *testing.T) {
	result := sampleScorecard()
	result.QualitativeOverlay.Score = schema.Float(62.5)
	result.QualitativeOverlay.HotspotSelection.Files = nil
	result.CriticalFlags = []schema.CriticalFlag{}
	result.UnavailableMetrics = []string{}

	out := RenderMarkdown(result)
	assert.Contains(t, out, "- Qualitative score: 62.5 (D)\n")
	assert.Contains(t, out, "## Critical Flags\n\n- None\n")
	assert.NotContains(t, out, "### Hotspot Files")
	assert.NotContains(t, out, "## Unavailable Metrics")
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestFlagLocation(t *testing.T) {
	file := "a.ts"
	line := 7
	assert.Equal(t, "a.ts:7", flagLocation(schema.CriticalFlag{File: &file, Line: &line}))
	assert.Equal(t, "a.ts", flagLocation(schema.CriticalFlag{File: &file}))
	assert.Equal(t, ":7", flagLocation(schema.CriticalFlag{Line: &line}))
	assert.Empty(t, flagLocation(schema.CriticalFlag{}))
}

func TestWriteQuantDocument(t *testing.T) {
	dir := t.TempDir()
	cfg := &contract.Config{
		OutQuant:       filepath.Join(dir, "nested", "quant.json"),
		OutUnavailable: filepath.Join(dir, "nested", "unavailable.json"),
	}
	doc := &schema.QuantDocument{
		SchemaVersion:      schema.QuantSchemaVersion,
		Profile:            schema.BalancedProfile,
		AnalysisMode:       schema.FullAnalysis,
		Files:              []schema.FileEntry{{Path: "src/<a>.ts", HotspotScore: schema.Float(10)}},
		Axes:               schema.AxisSet{},
		UnavailableMetrics: []string{"axis.complexity.not-enough-data"},
	}

	require.NoError(t, NewOutWriter().WriteQuantDocument(doc, cfg))

	quant, err := os.ReadFile(cfg.OutQuant)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(quant, []byte("}\n")))
	assert.Contains(t, string(quant), `"path": "src/<a>.ts"`)
	assert.Contains(t, string(quant), `"cyclomatic": null`)

	side, err := os.ReadFile(cfg.OutUnavailable)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"unavailableMetrics\": [\n    \"axis.complexity.not-enough-data\"\n  ]\n}\n", string(side))
}

func TestWriteScorecard(t *testing.T) {
	dir := t.TempDir()
	cfg := &contract.Config{
		OutJSON:     filepath.Join(dir, "out", "result.json"),
		OutMarkdown: filepath.Join(dir, "out", "result.md"),
	}
	result := sampleScorecard()
	require.NoError(t, NewOutWriter().WriteScorecard(result, cfg))

	raw, err := os.ReadFile(cfg.OutJSON)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run-1", decoded["runId"])
	assert.Equal(t, schema.ScorecardSchemaVersion, decoded["schemaVersion"])

	md, err := os.ReadFile(cfg.OutMarkdown)
	require.NoError(t, err)
	assert.Equal(t, RenderMarkdown(result), string(md))
}

func TestWriteDocument_EmptyPath(t *testing.T) {
	err := writeDocument("", func(w io.Writer) error { return nil }, "Wrote nothing")
	assert.Error(t, err)
}

func TestTopHotspots(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "b.ts", HotspotScore: schema.Float(50)},
		{Path: "a.ts", HotspotScore: schema.Float(50)},
		{Path: "c.ts", HotspotScore: schema.Float(90)},
		{Path: "d.ts"},
		{Path: "e.ts", HotspotScore: schema.Float(10)},
	}
	top := topHotspots(files, 3)
	assert.Equal(t, []schema.HotspotEntry{
		{Path: "c.ts", Score: 90},
		{Path: "a.ts", Score: 50},
		{Path: "b.ts", Score: 50},
	}, top)
}

func TestPrintCollectSummary(t *testing.T) {
	doc := &schema.QuantDocument{
		AnalysisMode:  schema.DegradedAnalysis,
		AnalysisScope: schema.AnalysisScope{SeedFileCount: 1, AnalyzedFileCount: 2},
		Files: []schema.FileEntry{
			{Path: "src/a.ts", HotspotScore: schema.Float(40), Metrics: schema.FileMetrics{ChurnLines: schema.Int(12)}},
			{Path: "src/b.ts", HotspotScore: schema.Float(5)},
		},
		Axes: schema.AxisSet{
			schema.ComplexityAxis: {Weight: 35},
			schema.ChangeRiskAxis: {Weight: 15, Score: schema.Float(80)},
		},
		Summary:            schema.QuantSummary{QuantitativeScore: 12, QuantitativeGrade: "F"},
		UnavailableMetrics: []string{"a", "b"},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.TextOut, Width: 120, Workers: 4}
		require.NoError(t, PrintCollectSummary(&buf, doc, cfg, time.Second))
		out := buf.String()
		assert.Contains(t, out, "changeRisk")
		assert.Contains(t, out, "src/a.ts")
		assert.Contains(t, out, "Quantitative score: 12 (F) | mode: degraded | files: 2 (seeds: 1) | unavailable metrics: 2")
		assert.Contains(t, out, "with 4 workers")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Output: schema.JSONOut}
		require.NoError(t, PrintCollectSummary(&buf, doc, cfg, 1500*time.Millisecond))
		var decoded collectSummary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, schema.DegradedAnalysis, decoded.AnalysisMode)
		assert.Equal(t, 2, decoded.UnavailableCount)
		assert.Equal(t, int64(1500), decoded.DurationMs)
		require.Len(t, decoded.TopHotspots, 2)
		assert.Equal(t, "src/a.ts", decoded.TopHotspots[0].Path)
	})
}

func TestPrintScorecardSummary(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Output: schema.TextOut}
	require.NoError(t, PrintScorecardSummary(&buf, sampleScorecard(), cfg, time.Second))
	out := buf.String()
	assert.Contains(t, out, "Intent Clarity")
	assert.Contains(t, out, "[critical] t: m (src/a.ts:3)")
	assert.Contains(t, out, "Note: note")
	assert.Contains(t, out, "Hotspot files: 1/3 | unavailable metrics: 1 | run: run-1")
}

func TestPrintToolchainStatus(t *testing.T) {
	status := schema.ToolchainStatus{
		Ready:           false,
		MissingPackages: []string{"tree-sitter"},
		Optional:        map[string]bool{"tsc": false},
		Details: map[string]string{
			"git":         "/usr/bin/git",
			"tree-sitter": "binary built without cgo",
			"tsc":         "not found on PATH",
		},
	}
	assert.Equal(t, []string{"git", "tree-sitter"}, requiredTools(status))

	var buf bytes.Buffer
	require.NoError(t, PrintToolchainStatus(&buf, status, &contract.Config{Output: schema.TextOut}))
	out := buf.String()
	assert.Contains(t, out, "/usr/bin/git")
	assert.Contains(t, out, "binary built without cgo")
	assert.Contains(t, out, "Toolchain not ready (missing: tree-sitter)")
}

func TestPrintHistoryStatus(t *testing.T) {
	status := schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     2,
		LastRunID:     "run-2",
		LastRunTime:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		OldestRunTime: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		TableSizes:    map[string]int64{"codehealth_scorecard_runs": 2},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintHistoryStatus(&buf, status, &contract.Config{Output: schema.TextOut}))
	out := buf.String()
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "2026-03-01 10:00:00")
	assert.Contains(t, out, "2 rows")

	buf.Reset()
	require.NoError(t, PrintHistoryStatus(&buf, status, &contract.Config{Output: schema.JSONOut}))
	assert.Contains(t, buf.String(), `"last_run_id": "run-2"`)
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 40, expected: 15},
		{width: 100, expected: 55},
		{width: 300, expected: 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTablePathWidth(&contract.Config{Width: tt.width}))
	}
}

func TestOutWriter_Summaries(t *testing.T) {
	var buf bytes.Buffer
	ow := &OutWriter{out: &buf}
	cfg := &contract.Config{Output: schema.JSONOut}

	require.NoError(t, ow.WriteScorecardSummary(sampleScorecard(), cfg, 0))
	var decoded scorecardSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Nil(t, decoded.Qualitative)
}
