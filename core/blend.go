package core

import (
	"fmt"
	"math"

	"github.com/gihwan-dev/codehealth/schema"
)

// Blend weights and the floor a passing quantitative score cannot fall below.
const (
	QuantitativeWeight = 0.85
	QualitativeWeight  = 0.15
	FailFloor          = 50.0
)

// Fixed blend notes.
const (
	noteQualitativeNA = "qualitative score is N/A; final score uses the quantitative score only"
	noteFailFloor     = "final score raised to the fail floor (50): the qualitative overlay alone cannot fail a passing quantitative score"
)

// Fixed cross-signal messages.
const (
	signalQualitativeNA  = "qualitative overlay score is N/A; check for missing input or insufficient evidence"
	signalQuantHighQual  = "quantitative score is high but qualitative score is low; code intent or boundaries may be poorly communicated"
	signalQualHighQuant  = "qualitative quality is good but quantitative metrics are low; reduce complexity and change risk first"
	signalBoundaryLow    = "Boundary Discipline is low; suspect layer violations or mixed concerns"
	signalFailureLow     = "Failure Semantics is low; failure handling policy (errors, timeouts, empty states) needs to be explicit"
	signalNoConflict     = "no major conflict detected between quantitative and qualitative signals"
	signalFlagsTemplate  = "%d critical flag(s) detected; review them first regardless of grade"
	missingQualitativeIn = "qualitative-overlay-input: --qual file was not provided"
)

// Quantitative score sources.
const (
	SourceDirect       = "direct"
	SourceAxesWeighted = "axes-weighted"
	SourceFallbackZero = "fallback-zero"
)

// Blend combines the quantitative and optional qualitative scores.
// A quantitative score at or above the fail floor never blends below it.
func Blend(quant float64, qual *float64) schema.FinalScore {
	notes := []string{}
	final := quant
	if qual != nil {
		final = schema.Round2(quant*QuantitativeWeight + *qual*QualitativeWeight)
	} else {
		notes = append(notes, noteQualitativeNA)
	}

	if quant >= FailFloor && final < FailFloor {
		final = FailFloor
		notes = append(notes, noteFailFloor)
	}
	return schema.FinalScore{Score: final, Grade: schema.GradeFromScore(final), Notes: notes}
}

// BuildCrossSignals explains disagreements between the two halves of the score.
// At least one signal is always returned.
func BuildCrossSignals(quant float64, qual *float64, criteria []schema.CriterionResult, flags []schema.CriticalFlag) []string {
	if qual == nil {
		return []string{signalQualitativeNA}
	}

	var signals []string
	if quant >= 80 && *qual < 60 {
		signals = append(signals, signalQuantHighQual)
	}
	if quant < 60 && *qual >= 75 {
		signals = append(signals, signalQualHighQuant)
	}
	if low(criteria, schema.BoundaryDiscipline) {
		signals = append(signals, signalBoundaryLow)
	}
	if low(criteria, schema.FailureSemantics) {
		signals = append(signals, signalFailureLow)
	}
	if len(flags) > 0 {
		signals = append(signals, fmt.Sprintf(signalFlagsTemplate, len(flags)))
	}
	if len(signals) == 0 {
		signals = append(signals, signalNoConflict)
	}
	return signals
}

// low reports whether the criterion is scored at 1 or below.
func low(criteria []schema.CriterionResult, id schema.CriterionID) bool {
	for _, c := range criteria {
		if c.ID == id {
			return c.Score != nil && *c.Score <= 1
		}
	}
	return false
}

// QuantitativeResolution is the quantitative score as read back from a document.
type QuantitativeResolution struct {
	Score  float64
	Grade  string
	Source string
	Axes   []schema.QuantAxis
}

// ResolveQuantitativeScore reads the quantitative score of a document. The
// summary score wins; otherwise the axes are blended by weight; otherwise the
// score is zero. The grade is always recomputed from the score.
func ResolveQuantitativeScore(in schema.QuantInput) QuantitativeResolution {
	axes := normalizeInputAxes(in.Axes)

	if s := in.Summary.QuantitativeScore; s != nil && finite(*s) {
		score := schema.Round2(schema.Clamp(*s, 0, 100))
		return QuantitativeResolution{Score: score, Grade: schema.GradeFromScore(score), Source: SourceDirect, Axes: axes}
	}

	if len(axes) == 0 {
		return QuantitativeResolution{Score: 0, Grade: "F", Source: SourceFallbackZero, Axes: axes}
	}

	var weighted, totalWeight float64
	scores := make([]*float64, 0, len(axes))
	for _, a := range axes {
		weighted += a.Score * a.Weight
		totalWeight += a.Weight
		scores = append(scores, schema.Float(a.Score))
	}
	value := 0.0
	if totalWeight > 0 {
		value = weighted / totalWeight
	} else if m := schema.Mean(scores...); m != nil {
		value = *m
	}
	score := schema.Round2(schema.Clamp(value, 0, 100))
	return QuantitativeResolution{Score: score, Grade: schema.GradeFromScore(score), Source: SourceAxesWeighted, Axes: axes}
}

// normalizeInputAxes keeps the axes that carry a finite score. A missing weight is 1.
func normalizeInputAxes(in schema.QuantInputAxes) []schema.QuantAxis {
	axes := []schema.QuantAxis{}
	for _, a := range in {
		if a.Name == "" || a.Score == nil || !finite(*a.Score) {
			continue
		}
		weight := 1.0
		if a.Weight != nil && finite(*a.Weight) {
			weight = max(*a.Weight, 0)
		}
		axes = append(axes, schema.QuantAxis{Name: a.Name, Score: schema.Clamp(*a.Score, 0, 100), Weight: weight})
	}
	return axes
}

// ScorecardUnavailable lists the metrics carried over from the quantitative
// document, plus the missing review input when there is none.
func ScorecardUnavailable(in schema.QuantInput, reviewProvided bool) []string {
	out := []string{}
	for _, u := range in.UnavailableMetrics {
		if u.Valid {
			out = append(out, u.Message)
		}
	}
	if !reviewProvided {
		out = append(out, missingQualitativeIn)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
