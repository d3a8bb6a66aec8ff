package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// scorecardSummary is the JSON form of the scorecard summary.
type scorecardSummary struct {
	RunID            string                   `json:"runId"`
	Quantitative     float64                  `json:"quantitative"`
	Qualitative      *float64                 `json:"qualitative"`
	Final            schema.FinalScore        `json:"final"`
	Criteria         []schema.CriterionResult `json:"criteria"`
	CrossSignals     []string                 `json:"crossSignals"`
	CriticalFlags    []schema.CriticalFlag    `json:"criticalFlags"`
	UnavailableCount int                      `json:"unavailableCount"`
	DurationMs       int64                    `json:"durationMs"`
}

// PrintScorecardSummary prints the blended scores, the rubric criteria and the flags.
func PrintScorecardSummary(w io.Writer, result *schema.ScorecardResult, cfg *contract.Config, duration time.Duration) error {
	overlay := result.QualitativeOverlay

	if cfg.Output == schema.JSONOut {
		return writeJSON(w, scorecardSummary{
			RunID:            result.RunID,
			Quantitative:     result.Quantitative.Score,
			Qualitative:      overlay.Score,
			Final:            result.Final,
			Criteria:         overlay.Criteria,
			CrossSignals:     result.CrossSignals,
			CriticalFlags:    result.CriticalFlags,
			UnavailableCount: len(result.UnavailableMetrics),
			DurationMs:       duration.Milliseconds(),
		})
	}

	scores := tablewriter.NewWriter(w)
	scores.Header([]string{"Component", "Weight", "Score", "Grade"})
	scores.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	scoreRows := [][]string{
		{"quantitative", formatNumber(result.Weights.Quantitative), formatNumber(result.Quantitative.Score), gradeLabel(result.Quantitative.Grade, cfg)},
		{"qualitative", formatNumber(result.Weights.Qualitative), formatOptional(overlay.Score), gradeLabel(schema.GradeFromOptional(overlay.Score), cfg)},
		{"final", "", formatNumber(result.Final.Score), gradeLabel(result.Final.Grade, cfg)},
	}
	if err := scores.Bulk(scoreRows); err != nil {
		return err
	}
	if err := scores.Render(); err != nil {
		return err
	}

	criteria := tablewriter.NewWriter(w)
	criteria.Header([]string{"Criterion", "Score", "Status", "Evidence"})
	criteria.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var criteriaRows [][]string
	for _, c := range overlay.Criteria {
		score := schema.GradeNA
		if c.Score != nil {
			score = fmt.Sprintf("%.2f", *c.Score)
		}
		criteriaRows = append(criteriaRows, []string{c.Label, score, string(c.Status), strconv.Itoa(c.EvidenceCount)})
	}
	if err := criteria.Bulk(criteriaRows); err != nil {
		return err
	}
	if err := criteria.Render(); err != nil {
		return err
	}

	for _, flag := range result.CriticalFlags {
		location := flagLocation(flag)
		if location != "" {
			location = " (" + location + ")"
		}
		if _, err := fmt.Fprintf(w, "[%s] %s: %s%s\n", severityLabel(flag.Severity, cfg), flag.Type, flag.Message, location); err != nil {
			return err
		}
	}
	for _, note := range result.Final.Notes {
		if _, err := fmt.Fprintf(w, "Note: %s\n", note); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Hotspot files: %d/%d | unavailable metrics: %d | run: %s\n",
		overlay.HotspotSelection.EligibleFileCount, overlay.HotspotSelection.TotalFileCount,
		len(result.UnavailableMetrics), result.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scorecard built in %v.\n", duration); err != nil {
		return err
	}
	return nil
}
