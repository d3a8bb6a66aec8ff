package core

import (
	"math"
	"sort"

	"github.com/gihwan-dev/codehealth/schema"
)

// HotspotScore blends complexity, churn, coupling and `any` usage into a 0-100
// review priority. Absent metrics count as zero.
func HotspotScore(m schema.FileMetrics, cal schema.HotspotCalibration) float64 {
	value := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	count := func(v *int) float64 {
		if v == nil {
			return 0
		}
		return float64(*v)
	}

	churnDivisor := cal.ChurnDivisor
	if churnDivisor <= 0 {
		churnDivisor = 1
	}

	score := schema.Clamp(value(m.Cyclomatic)*cal.CyclomaticScale, 0, 100)*cal.CyclomaticWeight +
		schema.Clamp(value(m.Cognitive)*cal.CognitiveScale, 0, 100)*cal.CognitiveWeight +
		schema.Clamp(count(m.ChurnLines)/churnDivisor, 0, 100)*cal.ChurnWeight +
		schema.Clamp(value(m.Instability)*cal.InstabilityScale, 0, 100)*cal.InstabilityWeight +
		schema.Clamp(count(m.AnyCount)*cal.AnyScale, 0, 100)*cal.AnyWeight
	return schema.Round2(score)
}

// HotspotCount is the number of files selected for review out of total.
// At least one file is selected whenever there is any file.
func HotspotCount(total int, ratio float64) int {
	if total <= 0 {
		return 0
	}
	n := int(math.Ceil(float64(total) * ratio))
	return max(1, min(n, total))
}

// SelectHotspots ranks entries by score, highest first, and keeps the top share.
// Ties keep their input order.
func SelectHotspots(entries []schema.HotspotEntry, ratio float64) []schema.HotspotEntry {
	if len(entries) == 0 {
		return []schema.HotspotEntry{}
	}
	ranked := make([]schema.HotspotEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked[:HotspotCount(len(ranked), ratio)]
}

// HotspotEntries scores every file for selection. A precomputed hotspotScore wins
// over recomputing it from the metrics.
func HotspotEntries(files []schema.FileEntry, cal schema.HotspotCalibration) []schema.HotspotEntry {
	entries := make([]schema.HotspotEntry, 0, len(files))
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		score := HotspotScore(f.Metrics, cal)
		if f.HotspotScore != nil && !math.IsNaN(*f.HotspotScore) && !math.IsInf(*f.HotspotScore, 0) {
			score = schema.Clamp(*f.HotspotScore, 0, 100)
		}
		entries = append(entries, schema.HotspotEntry{Path: f.Path, Score: score})
	}
	return entries
}
