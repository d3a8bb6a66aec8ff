package core

import (
	"context"
	"time"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/google/uuid"
)

// ScorecardResultBuilder builds the scorecard result using a builder pattern.
type ScorecardResultBuilder struct {
	ctx context.Context
	cfg *contract.Config

	quant    *schema.QuantInput
	review   *schema.ReviewDocument
	files    []schema.FileEntry
	resolved QuantitativeResolution
	hotspots []schema.HotspotEntry
	overlay  OverlayResult
	final    schema.FinalScore
	signals  []string
	result   *schema.ScorecardResult
}

// NewScorecardResultBuilder creates a new builder for scorecard results.
func NewScorecardResultBuilder(ctx context.Context, cfg *contract.Config) *ScorecardResultBuilder {
	return &ScorecardResultBuilder{ctx: ctx, cfg: cfg}
}

// LoadInputs reads the quantitative document and the optional review.
// Either document failing to parse is fatal for the scorecard.
func (b *ScorecardResultBuilder) LoadInputs() (*ScorecardResultBuilder, error) {
	quant, err := LoadQuantDocument(b.cfg.QuantPath)
	if err != nil {
		return nil, err
	}
	review, err := LoadReviewDocument(b.cfg.QualPath)
	if err != nil {
		return nil, err
	}
	return b.WithInputs(quant, review), nil
}

// WithInputs uses documents that are already in memory. review may be nil.
func (b *ScorecardResultBuilder) WithInputs(quant *schema.QuantInput, review *schema.ReviewDocument) *ScorecardResultBuilder {
	b.quant = quant
	b.review = review
	return b
}

// ResolveQuantitative reads the quantitative score back from the document.
func (b *ScorecardResultBuilder) ResolveQuantitative() *ScorecardResultBuilder {
	b.resolved = ResolveQuantitativeScore(*b.quant)
	return b
}

// SelectHotspots ranks the documented files and keeps the review share.
func (b *ScorecardResultBuilder) SelectHotspots() *ScorecardResultBuilder {
	b.files = make([]schema.FileEntry, 0, len(b.quant.Files))
	for _, f := range b.quant.Files {
		if f.Path != "" {
			b.files = append(b.files, f)
		}
	}
	b.hotspots = SelectHotspots(HotspotEntries(b.files, b.cfg.Calibration.Hotspot), b.cfg.Calibration.Hotspot.Ratio)
	return b
}

// MergeOverlay merges the review over the hotspot files.
func (b *ScorecardResultBuilder) MergeOverlay() *ScorecardResultBuilder {
	b.overlay = BuildQualitativeOverlay(b.review, b.hotspots)
	return b
}

// BlendScores computes the final score and the cross signals.
func (b *ScorecardResultBuilder) BlendScores() *ScorecardResultBuilder {
	b.final = Blend(b.resolved.Score, b.overlay.Score)
	b.signals = BuildCrossSignals(b.resolved.Score, b.overlay.Score, b.overlay.Criteria, b.overlay.CriticalFlags)
	return b
}

// BuildResult constructs the final ScorecardResult.
func (b *ScorecardResultBuilder) BuildResult() *ScorecardResultBuilder {
	runID, ok := getRunID(b.ctx)
	if !ok {
		runID = uuid.NewString()
	}

	flags := b.overlay.CriticalFlags
	if flags == nil {
		flags = []schema.CriticalFlag{}
	}

	b.result = &schema.ScorecardResult{
		SchemaVersion: schema.ScorecardSchemaVersion,
		RunID:         runID,
		GeneratedAt:   time.Now().UTC(),
		Profile:       b.cfg.Profile,
		Weights: schema.BlendWeights{
			Quantitative: QuantitativeWeight,
			Qualitative:  QualitativeWeight,
		},
		Quantitative: schema.QuantitativeBlock{
			Score:  b.resolved.Score,
			Grade:  b.resolved.Grade,
			Source: b.resolved.Source,
			Axes:   b.resolved.Axes,
		},
		QualitativeOverlay: schema.QualitativeOverlay{
			HotspotSelection: schema.HotspotSelection{
				TotalFileCount:    len(b.files),
				EligibleFileCount: len(b.hotspots),
				TopPercent:        schema.Round2(b.cfg.Calibration.Hotspot.Ratio * 100),
				Files:             b.hotspots,
			},
			Criteria: b.overlay.Criteria,
			Score:    b.overlay.Score,
			Evidence: b.overlay.Evidence,
		},
		Final:              b.final,
		CrossSignals:       b.signals,
		CriticalFlags:      flags,
		UnavailableMetrics: ScorecardUnavailable(*b.quant, b.review != nil),
		Files:              b.files,
	}
	return b
}

// GetResult returns the built ScorecardResult.
func (b *ScorecardResultBuilder) GetResult() *schema.ScorecardResult {
	return b.result
}

// BuildScorecard runs every scorecard step over in-memory documents.
func BuildScorecard(ctx context.Context, cfg *contract.Config, quant *schema.QuantInput, review *schema.ReviewDocument) *schema.ScorecardResult {
	return NewScorecardResultBuilder(ctx, cfg).
		WithInputs(quant, review).
		ResolveQuantitative().
		SelectHotspots().
		MergeOverlay().
		BlendScores().
		BuildResult().
		GetResult()
}
