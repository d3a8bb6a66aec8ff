package schema

import "time"

// ScorecardRunRecord represents a row from the codehealth_scorecard_runs table.
type ScorecardRunRecord struct {
	RunID             string
	GeneratedAt       time.Time
	Profile           string
	QuantitativeScore float64
	QualitativeScore  *float64
	FinalScore        float64
	FinalGrade        string
	FileCount         int32
	HotspotCount      int32
	CriticalFlagCount int32
}

// FileScoreRecord represents a row from the codehealth_file_scores table.
type FileScoreRecord struct {
	RunID        string
	FilePath     string
	HotspotScore float64
	Hotspot      bool
	Cyclomatic   *float64
	Cognitive    *float64
	ChurnLines   *int32
	Instability  *float64
	LineCoverage *float64
}
