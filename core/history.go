package core

import (
	"math"

	"github.com/gihwan-dev/codehealth/schema"
)

// HistoryRecords converts a scorecard into the rows kept by the history store:
// one run row and one row per documented file.
func HistoryRecords(result *schema.ScorecardResult, cal schema.HotspotCalibration) (schema.ScorecardRunRecord, []schema.FileScoreRecord) {
	selection := result.QualitativeOverlay.HotspotSelection
	run := schema.ScorecardRunRecord{
		RunID:             result.RunID,
		GeneratedAt:       result.GeneratedAt,
		Profile:           string(result.Profile),
		QuantitativeScore: result.Quantitative.Score,
		QualitativeScore:  result.QualitativeOverlay.Score,
		FinalScore:        result.Final.Score,
		FinalGrade:        result.Final.Grade,
		FileCount:         int32(len(result.Files)),
		HotspotCount:      int32(len(selection.Files)),
		CriticalFlagCount: int32(len(result.CriticalFlags)),
	}

	selected := make(map[string]struct{}, len(selection.Files))
	for _, h := range selection.Files {
		selected[h.Path] = struct{}{}
	}
	metrics := make(map[string]schema.FileMetrics, len(result.Files))
	for _, f := range result.Files {
		metrics[f.Path] = f.Metrics
	}

	entries := HotspotEntries(result.Files, cal)
	files := make([]schema.FileScoreRecord, 0, len(entries))
	for _, e := range entries {
		m := metrics[e.Path]
		_, hot := selected[e.Path]
		files = append(files, schema.FileScoreRecord{
			RunID:        result.RunID,
			FilePath:     e.Path,
			HotspotScore: e.Score,
			Hotspot:      hot,
			Cyclomatic:   m.Cyclomatic,
			Cognitive:    m.Cognitive,
			ChurnLines:   int32Ptr(m.ChurnLines),
			Instability:  m.Instability,
			LineCoverage: m.LineCoverage,
		})
	}
	return run, files
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(min(max(*v, math.MinInt32), math.MaxInt32))
	return &n
}
