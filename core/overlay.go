package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gihwan-dev/codehealth/schema"
)

// Reasons a criterion instance is not scored.
const (
	reasonMissingItem      = "missing item"
	reasonTooFewEvidence   = "fewer than 2 evidence entries"
	reasonMissingScore     = "missing score"
	reasonNoEvaluationData = "no evaluation data"
)

// minEvidence is the evidence count below which a criterion score is ignored.
const minEvidence = 2

// OverlayResult is the merged qualitative review over the hotspot files.
type OverlayResult struct {
	Criteria      []schema.CriterionResult
	Score         *float64
	Evidence      []schema.EvidenceRecord
	CriticalFlags []schema.CriticalFlag
}

// criterionBucket accumulates the scored instances of one criterion.
type criterionBucket struct {
	scores        []*float64
	evidenceCount int
	reasons       []string
}

// BuildQualitativeOverlay merges reviewer evaluations of hotspot files into the
// five rubric criteria. Evaluations of files outside the hotspot set are ignored.
// A criterion instance only counts when it has a score and at least two evidence
// entries. A nil review yields N/A on every criterion.
func BuildQualitativeOverlay(review *schema.ReviewDocument, hotspots []schema.HotspotEntry) OverlayResult {
	hotspotSet := make(map[string]struct{}, len(hotspots))
	for _, h := range hotspots {
		hotspotSet[h.Path] = struct{}{}
	}

	buckets := make(map[schema.CriterionID]*criterionBucket, len(schema.AllCriteria))
	for _, c := range schema.AllCriteria {
		buckets[c.ID] = &criterionBucket{}
	}

	evidence := []schema.EvidenceRecord{}
	var flags []schema.CriticalFlag

	if review != nil {
		for _, eval := range review.Evaluations {
			if !eval.Present || !eval.File.Valid || eval.File.Value == "" {
				continue
			}
			file := eval.File.Value
			if _, ok := hotspotSet[file]; !ok {
				continue
			}

			for _, criterion := range schema.AllCriteria {
				bucket := buckets[criterion.ID]
				raw, ok := findCriterion(eval.Criteria, criterion.ID)
				if !ok {
					bucket.reasons = append(bucket.reasons, reasonMissingItem)
					continue
				}

				entries := normalizeEvidence(raw.Evidence, file)
				if len(entries) < minEvidence {
					bucket.reasons = append(bucket.reasons, reasonTooFewEvidence)
					continue
				}
				if !raw.Score.Valid {
					bucket.reasons = append(bucket.reasons, reasonMissingScore)
					continue
				}

				score := schema.Clamp(raw.Score.Value, 0, 4)
				bucket.scores = append(bucket.scores, schema.Float(score))
				bucket.evidenceCount += len(entries)
				for _, e := range entries {
					evidence = append(evidence, schema.EvidenceRecord{
						CriterionID:    criterion.ID,
						CriterionLabel: criterion.Label,
						Evidence:       e,
					})
				}

				if score == 0 {
					if flagType, ok := zeroScoreFlags[criterion.ID]; ok {
						flags = append(flags, schema.CriticalFlag{
							Type:     flagType,
							Message:  fmt.Sprintf("%s scored 0", criterion.Label),
							File:     stringPtr(file),
							Line:     entries[0].Line,
							Severity: schema.CriticalSeverity,
						})
					}
				}
			}

			for _, f := range eval.CriticalFlags {
				if f.Present {
					flags = append(flags, normalizeFlag(f, stringPtr(file)))
				}
			}
		}

		for _, f := range review.CriticalFlags {
			if f.Present {
				flags = append(flags, normalizeFlag(f, nil))
			}
		}
	}

	criteria := make([]schema.CriterionResult, 0, len(schema.AllCriteria))
	var criterionScores []*float64
	for _, c := range schema.AllCriteria {
		bucket := buckets[c.ID]
		result := schema.CriterionResult{ID: c.ID, Label: c.Label, EvidenceCount: bucket.evidenceCount}
		if avg := schema.Mean(bucket.scores...); avg != nil {
			result.Score = schema.Float(schema.Round2(*avg))
			result.Status = schema.ScoredStatus
			criterionScores = append(criterionScores, result.Score)
		} else {
			result.Status = schema.NotAvailableStatus
			result.Reason = reasonNoEvaluationData
			if len(bucket.reasons) > 0 {
				result.Reason = bucket.reasons[0]
			}
		}
		criteria = append(criteria, result)
	}

	var score *float64
	if avg := schema.Mean(criterionScores...); avg != nil {
		score = schema.Float(schema.Round2(*avg * 25))
	}

	return OverlayResult{
		Criteria:      criteria,
		Score:         score,
		Evidence:      evidence,
		CriticalFlags: DedupeFlags(flags),
	}
}

// zeroScoreFlags maps the criteria whose zero score is always a critical finding.
var zeroScoreFlags = map[schema.CriterionID]string{
	schema.BoundaryDiscipline: schema.BoundaryViolationFlag,
	schema.FailureSemantics:   schema.MissingFailureFlag,
}

// findCriterion returns the first rubric item with the given id.
func findCriterion(items []schema.RawCriterion, id schema.CriterionID) (schema.RawCriterion, bool) {
	for _, item := range items {
		if item.Present && item.ID.Valid && item.ID.Value == string(id) {
			return item, true
		}
	}
	return schema.RawCriterion{}, false
}

// normalizeEvidence drops empty entries and fills the file from the evaluation.
func normalizeEvidence(raw []schema.RawEvidence, fallbackFile string) []schema.Evidence {
	out := make([]schema.Evidence, 0, len(raw))
	for _, r := range raw {
		if !r.Present {
			continue
		}
		if r.Text.Valid {
			out = append(out, schema.Evidence{File: stringPtr(fallbackFile), Detail: r.Text.Value})
			continue
		}
		e := schema.Evidence{File: stringPtr(fallbackFile), Line: lineNumber(r.Line)}
		if r.File.Valid {
			e.File = stringPtr(r.File.Value)
		}
		switch {
		case r.Detail.Valid:
			e.Detail = r.Detail.Value
		case r.Note.Valid:
			e.Detail = r.Note.Value
		}
		out = append(out, e)
	}
	return out
}

// normalizeFlag fills the defaults of a reviewer-supplied flag.
func normalizeFlag(f schema.RawFlag, fallbackFile *string) schema.CriticalFlag {
	flag := schema.CriticalFlag{
		Type:     "unknown",
		File:     fallbackFile,
		Line:     lineNumber(f.Line),
		Severity: schema.WarningSeverity,
	}
	if f.Type.Valid {
		flag.Type = f.Type.Value
	}
	if f.Message.Valid {
		flag.Message = f.Message.Value
	}
	if f.File.Valid {
		flag.File = stringPtr(f.File.Value)
	}
	if f.Severity.Valid {
		flag.Severity = f.Severity.Value
	}
	return flag
}

// DedupeFlags keeps the first flag for each type, file, line and message.
func DedupeFlags(flags []schema.CriticalFlag) []schema.CriticalFlag {
	seen := make(map[string]struct{}, len(flags))
	out := make([]schema.CriticalFlag, 0, len(flags))
	for _, f := range flags {
		key := flagKey(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func flagKey(f schema.CriticalFlag) string {
	file, line := "", ""
	if f.File != nil {
		file = *f.File
	}
	if f.Line != nil {
		line = strconv.Itoa(*f.Line)
	}
	return f.Type + "|" + file + "|" + line + "|" + f.Message
}

// lineNumber truncates a reviewer line number to a 1-based int.
func lineNumber(n schema.OptionalNumber) *int {
	if !n.Valid {
		return nil
	}
	line := max(1, int(math.Trunc(n.Value)))
	return &line
}

func stringPtr(s string) *string {
	return &s
}
