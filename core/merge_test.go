package core

import (
	"testing"

	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFileMetrics_TargetsStartEmpty(t *testing.T) {
	merged := MergeFileMetrics([]string{"src/a.ts", "src/b.ts"})
	require.Len(t, merged, 2)
	assert.Equal(t, schema.FileMetrics{}, merged["src/a.ts"])
	assert.Equal(t, schema.FileMetrics{}, merged["src/b.ts"])
}

func TestMergeFileMetrics_DisjointSourcesCommute(t *testing.T) {
	structural := map[string]schema.MetricPatch{
		"src/a.ts": {FileMetrics: schema.FileMetrics{Cognitive: schema.Float(7), LocLogical: schema.Float(120)}},
	}
	churn := map[string]schema.MetricPatch{
		"src/a.ts": {FileMetrics: schema.FileMetrics{ChurnLines: schema.Int(40), ChurnTouches: schema.Int(3)}},
		"src/b.ts": {FileMetrics: schema.FileMetrics{ChurnLines: schema.Int(5)}},
	}
	targets := []string{"src/a.ts", "src/b.ts"}

	forward := MergeFileMetrics(targets, structural, churn)
	backward := MergeFileMetrics(targets, churn, structural)
	assert.Equal(t, forward, backward)

	a := forward["src/a.ts"]
	assert.Equal(t, 7.0, *a.Cognitive)
	assert.Equal(t, 40, *a.ChurnLines)
	assert.Nil(t, a.Cyclomatic)
	assert.Nil(t, forward["src/b.ts"].Cognitive)
}

func TestMergeFileMetrics_EmptyPatchIsNeutral(t *testing.T) {
	a := map[string]schema.MetricPatch{
		"src/a.ts": {FileMetrics: schema.FileMetrics{AnyCount: schema.Int(2), Instability: schema.Float(0.5)}},
		"src/b.ts": {CyclomaticApprox: schema.Float(3)},
	}
	b := map[string]schema.MetricPatch{
		"src/a.ts": {},
		"src/b.ts": {},
	}
	targets := []string{"src/a.ts", "src/b.ts"}

	assert.Equal(t, MergeFileMetrics(targets, a), MergeFileMetrics(targets, a, b))
	assert.Equal(t, MergeFileMetrics(targets, a), MergeFileMetrics(targets, b, a))
}

func TestMergeFileMetrics_LaterSourceWins(t *testing.T) {
	first := map[string]schema.MetricPatch{"src/a.ts": {FileMetrics: schema.FileMetrics{AnyCount: schema.Int(1)}}}
	second := map[string]schema.MetricPatch{"src/a.ts": {FileMetrics: schema.FileMetrics{AnyCount: schema.Int(4)}}}

	merged := MergeFileMetrics([]string{"src/a.ts"}, first, second)
	assert.Equal(t, 4, *merged["src/a.ts"].AnyCount)
}

func TestMergeFileMetrics_ApproxCyclomatic(t *testing.T) {
	structural := map[string]schema.MetricPatch{
		"src/a.ts": {CyclomaticApprox: schema.Float(4)},
		"src/b.ts": {CyclomaticApprox: schema.Float(6)},
	}
	lint := map[string]schema.MetricPatch{
		"src/a.ts": {FileMetrics: schema.FileMetrics{Cyclomatic: schema.Float(9)}},
	}

	merged := MergeFileMetrics([]string{"src/a.ts", "src/b.ts"}, structural, lint)
	assert.Equal(t, 9.0, *merged["src/a.ts"].Cyclomatic, "exact value wins over the estimate")
	assert.Equal(t, 6.0, *merged["src/b.ts"].Cyclomatic, "estimate fills the gap")
}

func TestMergeFileMetrics_ExtraFilesAreAdded(t *testing.T) {
	deps := map[string]schema.MetricPatch{
		"src/outside.ts": {FileMetrics: schema.FileMetrics{FanIn: schema.Int(2)}},
	}
	merged := MergeFileMetrics([]string{"src/a.ts"}, deps)
	assert.Equal(t, []string{"src/a.ts", "src/outside.ts"}, SortedPaths(merged))
	assert.Equal(t, 2, *merged["src/outside.ts"].FanIn)
}
