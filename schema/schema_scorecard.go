package schema

import "time"

// Evidence is one normalized evidence entry.
type Evidence struct {
	File   *string `json:"file"`
	Line   *int    `json:"line"`
	Detail string  `json:"detail"`
}

// EvidenceRecord is an evidence entry tagged with the criterion it supports.
type EvidenceRecord struct {
	CriterionID    CriterionID `json:"criterionId"`
	CriterionLabel string      `json:"criterionLabel"`
	Evidence
}

// CriticalFlag is a severity-tagged finding that is always surfaced.
type CriticalFlag struct {
	Type     string  `json:"type"`
	Message  string  `json:"message"`
	File     *string `json:"file"`
	Line     *int    `json:"line"`
	Severity string  `json:"severity"`
}

// CriterionResult is the overlay outcome for one rubric criterion.
type CriterionResult struct {
	ID            CriterionID     `json:"id"`
	Label         string          `json:"label"`
	Score         *float64        `json:"score"`
	Status        CriterionStatus `json:"status"`
	EvidenceCount int             `json:"evidenceCount"`
	Reason        string          `json:"reason,omitempty"`
}

// HotspotEntry is a file ranked by hotspot score.
type HotspotEntry struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// HotspotSelection describes which files were eligible for review.
type HotspotSelection struct {
	TotalFileCount    int            `json:"totalFileCount"`
	EligibleFileCount int            `json:"eligibleFileCount"`
	TopPercent        float64        `json:"topPercent"`
	Files             []HotspotEntry `json:"files"`
}

// QuantAxis is a normalized axis as reported in the scorecard.
type QuantAxis struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// QuantitativeBlock is the quantitative half of the scorecard.
type QuantitativeBlock struct {
	Score  float64     `json:"score"`
	Grade  string      `json:"grade"`
	Source string      `json:"source"`
	Axes   []QuantAxis `json:"axes"`
}

// QualitativeOverlay is the qualitative half of the scorecard.
type QualitativeOverlay struct {
	HotspotSelection HotspotSelection  `json:"hotspotSelection"`
	Criteria         []CriterionResult `json:"criteria"`
	Score            *float64          `json:"score"`
	Evidence         []EvidenceRecord  `json:"evidence"`
}

// FinalScore is the blended outcome.
type FinalScore struct {
	Score float64  `json:"score"`
	Grade string   `json:"grade"`
	Notes []string `json:"notes"`
}

// BlendWeights records the quantitative/qualitative split.
type BlendWeights struct {
	Quantitative float64 `json:"quantitative"`
	Qualitative  float64 `json:"qualitative"`
}

// ScorecardResult is the final result document.
type ScorecardResult struct {
	SchemaVersion      string             `json:"schemaVersion"`
	RunID              string             `json:"runId"`
	GeneratedAt        time.Time          `json:"generatedAt"`
	Profile            Profile            `json:"profile"`
	Weights            BlendWeights       `json:"weights"`
	Quantitative       QuantitativeBlock  `json:"quantitative"`
	QualitativeOverlay QualitativeOverlay `json:"qualitativeOverlay"`
	Final              FinalScore         `json:"final"`
	CrossSignals       []string           `json:"crossSignals"`
	CriticalFlags      []CriticalFlag     `json:"criticalFlags"`
	UnavailableMetrics []string           `json:"unavailableMetrics"`
	Files              []FileEntry        `json:"files"`
}
