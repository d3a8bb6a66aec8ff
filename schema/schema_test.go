package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMetricPatchApply_OnlyOverwritesReportedFields(t *testing.T) {
	m := FileMetrics{Cyclomatic: Float(4), ChurnLines: Int(12)}
	patch := MetricPatch{FileMetrics: FileMetrics{Cognitive: Float(7), Circular: Bool(true)}}

	patch.Apply(&m)

	require.NotNil(t, m.Cyclomatic)
	assert.Equal(t, 4.0, *m.Cyclomatic)
	require.NotNil(t, m.ChurnLines)
	assert.Equal(t, 12, *m.ChurnLines)
	require.NotNil(t, m.Cognitive)
	assert.Equal(t, 7.0, *m.Cognitive)
	require.NotNil(t, m.Circular)
	assert.True(t, *m.Circular)
	assert.Nil(t, m.LineCoverage)
}

func TestMetricPatchApply_CopiesValues(t *testing.T) {
	src := Float(3)
	patch := MetricPatch{FileMetrics: FileMetrics{Cyclomatic: src}}
	var m FileMetrics
	patch.Apply(&m)
	*src = 99
	assert.Equal(t, 3.0, *m.Cyclomatic)
}

func TestFileMetrics_NullFieldsAreSerialized(t *testing.T) {
	data, err := json.Marshal(FileMetrics{AnyCount: Int(0)})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 21)
	assert.Nil(t, decoded["cyclomatic"])
	assert.Equal(t, 0.0, decoded["anyCount"])
}

func TestAxisSet_MarshalKeepsReportingOrder(t *testing.T) {
	set := AxisSet{
		ChangeRiskAxis:      {Weight: 15},
		ComplexityAxis:      {Weight: 35, Score: Float(80)},
		TestReliabilityAxis: {Weight: 20},
		TypeSafetyAxis:      {Weight: 30, Score: Float(91.5)},
	}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t,
		`{"complexity":{"weight":35,"score":80},"typeSafety":{"weight":30,"score":91.5},"testReliability":{"weight":20,"score":null},"changeRisk":{"weight":15,"score":null}}`,
		string(data))
}

func TestOptionalNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		value float64
		count int
	}{
		{`12.5`, true, 12.5, 13},
		{`2.0`, true, 2, 2},
		{`7`, true, 7, 7},
		{`1e300`, true, 1e300, 1 << 53},
		{`null`, false, 0, 0},
		{`"3"`, false, 0, 0},
		{`true`, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n OptionalNumber
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.valid, n.Valid)
			if !tt.valid {
				assert.Nil(t, n.Count())
				return
			}
			assert.InDelta(t, tt.value, n.Value, 0)
			assert.Equal(t, tt.count, *n.Count())
		})
	}
}

func TestFileEntry_UnmarshalRoundTripsCollectOutput(t *testing.T) {
	entry := FileEntry{Path: "src/a.ts", Metrics: FileMetrics{ChurnLines: Int(40), Circular: Bool(false), Cyclomatic: Float(3.5)}}
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded FileEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestUnavailableEntry_Unmarshal(t *testing.T) {
	var entries []UnavailableEntry
	require.NoError(t, json.Unmarshal([]byte(`["a", {"message": "b"}, {"other": 1}, 3]`), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, UnavailableEntry{Message: "a", Valid: true}, entries[0])
	assert.Equal(t, UnavailableEntry{Message: "b", Valid: true}, entries[1])
	assert.False(t, entries[2].Valid)
	assert.False(t, entries[3].Valid)
}

func TestReviewDocument_DecodeJSON(t *testing.T) {
	raw := `{
  "evaluations": [
    {
      "file": "src/a.ts",
      "criteria": [
        {"id": "intent_clarity", "score": 3, "evidence": ["names are clear", {"file": "src/a.ts", "line": 12.7, "note": "guard"}]},
        {"id": "local_reasoning", "score": "high", "evidence": "not a list"},
        null
      ],
      "criticalFlags": [{"type": "leak", "message": "global state"}, "bogus"]
    },
    42
  ],
  "criticalFlags": [{"message": "root"}]
}`
	var doc ReviewDocument
	require.NoError(t, yaml.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Evaluations, 2)
	ev := doc.Evaluations[0]
	assert.True(t, ev.Present)
	assert.Equal(t, "src/a.ts", ev.File.Value)
	require.Len(t, ev.Criteria, 3)

	intent := ev.Criteria[0]
	assert.Equal(t, "intent_clarity", intent.ID.Value)
	assert.True(t, intent.Score.Valid)
	assert.Equal(t, 3.0, intent.Score.Value)
	require.Len(t, intent.Evidence, 2)
	assert.Equal(t, "names are clear", intent.Evidence[0].Text.Value)
	assert.Equal(t, 12.7, intent.Evidence[1].Line.Value)
	assert.Equal(t, "guard", intent.Evidence[1].Note.Value)

	local := ev.Criteria[1]
	assert.False(t, local.Score.Valid)
	assert.Empty(t, local.Evidence)

	assert.False(t, ev.Criteria[2].Present)
	require.Len(t, ev.CriticalFlags, 2)
	assert.True(t, ev.CriticalFlags[0].Present)
	assert.False(t, ev.CriticalFlags[1].Present)

	assert.False(t, doc.Evaluations[1].Present)
	require.Len(t, doc.CriticalFlags, 1)
	assert.False(t, doc.CriticalFlags[0].Type.Valid)
}

func TestReviewDocument_DecodeYAML(t *testing.T) {
	raw := `
evaluations:
  - file: src/b.tsx
    criteria:
      - id: boundary_discipline
        score: 0
        evidence:
          - file: src/b.tsx
            line: 4
            detail: fetch inside render
          - reaches into the store directly
`
	var doc ReviewDocument
	require.NoError(t, yaml.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Evaluations, 1)
	c := doc.Evaluations[0].Criteria[0]
	assert.Equal(t, "boundary_discipline", c.ID.Value)
	assert.True(t, c.Score.Valid)
	assert.Equal(t, 0.0, c.Score.Value)
	require.Len(t, c.Evidence, 2)
	assert.Equal(t, "fetch inside render", c.Evidence[0].Detail.Value)
}
