package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scorecardQuant = `{
  "profile": "balanced",
  "files": [
    {"path": "src/a.ts", "metrics": {"cyclomatic": 10}},
    {"path": "src/b.ts", "metrics": {}, "hotspotScore": 70},
    {"path": "src/c.ts", "metrics": {"churnLines": 80}},
    {"path": "", "metrics": {"cyclomatic": 99}},
    {"path": "src/d.ts", "metrics": {}},
    {"path": "src/e.ts", "metrics": {}}
  ],
  "summary": {"quantitativeScore": 80},
  "unavailableMetrics": ["eslint.report-missing", {"message": "typescript.tsc-not-found"}]
}`

const scorecardReview = `
evaluations:
  - file: src/b.ts
    criteria:
      - {id: intent_clarity, score: 4, evidence: [names match behaviour, small functions]}
      - {id: local_reasoning, score: 4, evidence: [no globals, pure helpers]}
      - {id: failure_semantics, score: 4, evidence: [errors wrapped, no silent catch]}
      - {id: boundary_discipline, score: 4, evidence: [api client injected, no db import]}
      - {id: test_oracle_quality, score: 4, evidence: [asserts values, covers edge cases]}
`

func scorecardConfig() *contract.Config {
	return &contract.Config{
		Profile:     schema.BalancedProfile,
		Calibration: schema.DefaultCalibration(),
	}
}

func decodeScorecardQuant(t *testing.T) *schema.QuantInput {
	t.Helper()
	var in schema.QuantInput
	require.NoError(t, json.Unmarshal([]byte(scorecardQuant), &in))
	return &in
}

func TestBuildScorecard_WithReview(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-fixed")
	result := BuildScorecard(ctx, scorecardConfig(), decodeScorecardQuant(t), parseReview(t, scorecardReview))

	assert.Equal(t, "run-fixed", result.RunID)
	assert.Equal(t, schema.ScorecardSchemaVersion, result.SchemaVersion)
	assert.Equal(t, QuantitativeWeight, result.Weights.Quantitative)
	assert.Equal(t, QualitativeWeight, result.Weights.Qualitative)

	assert.Equal(t, 80.0, result.Quantitative.Score)
	assert.Equal(t, "B", result.Quantitative.Grade)
	assert.Equal(t, SourceDirect, result.Quantitative.Source)

	selection := result.QualitativeOverlay.HotspotSelection
	assert.Equal(t, 5, selection.TotalFileCount, "files without a path are dropped")
	assert.Equal(t, 1, selection.EligibleFileCount)
	assert.Equal(t, 20.0, selection.TopPercent)
	assert.Equal(t, []schema.HotspotEntry{{Path: "src/b.ts", Score: 70}}, selection.Files)

	require.NotNil(t, result.QualitativeOverlay.Score)
	assert.Equal(t, 100.0, *result.QualitativeOverlay.Score)
	assert.Len(t, result.QualitativeOverlay.Evidence, 10)

	assert.Equal(t, 83.0, result.Final.Score)
	assert.Equal(t, "B", result.Final.Grade)
	assert.Empty(t, result.CriticalFlags)
	assert.NotNil(t, result.CriticalFlags)
	assert.Equal(t, []string{"eslint.report-missing", "typescript.tsc-not-found"}, result.UnavailableMetrics)
	assert.Len(t, result.Files, 5)
}

func TestBuildScorecard_WithoutReview(t *testing.T) {
	result := BuildScorecard(context.Background(), scorecardConfig(), decodeScorecardQuant(t), nil)

	assert.NotEmpty(t, result.RunID, "a run id is generated when none is pinned")
	assert.Nil(t, result.QualitativeOverlay.Score)
	assert.Equal(t, 80.0, result.Final.Score)
	assert.Equal(t, []string{noteQualitativeNA}, result.Final.Notes)
	assert.Equal(t, []string{signalQualitativeNA}, result.CrossSignals)
	assert.Equal(t, []string{
		"eslint.report-missing",
		"typescript.tsc-not-found",
		missingQualitativeIn,
	}, result.UnavailableMetrics)

	for _, c := range result.QualitativeOverlay.Criteria {
		assert.Equal(t, schema.NotAvailableStatus, c.Status, c.ID)
	}
}

func TestBuildScorecard_EmptyQuant(t *testing.T) {
	result := BuildScorecard(context.Background(), scorecardConfig(), &schema.QuantInput{}, nil)

	assert.Equal(t, SourceFallbackZero, result.Quantitative.Source)
	assert.Equal(t, 0.0, result.Final.Score)
	assert.Equal(t, "F", result.Final.Grade)
	assert.Empty(t, result.QualitativeOverlay.HotspotSelection.Files)
	assert.Equal(t, 0, result.QualitativeOverlay.HotspotSelection.TotalFileCount)
}
