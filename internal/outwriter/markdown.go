package outwriter

import (
	"fmt"
	"strings"

	"github.com/gihwan-dev/codehealth/schema"
)

// RenderMarkdown renders the human-readable scorecard report.
func RenderMarkdown(result *schema.ScorecardResult) string {
	overlay := result.QualitativeOverlay
	selection := overlay.HotspotSelection

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("# Code Health Result")
	add("")
	add("## Summary")
	add("")
	add("- Profile: %s", result.Profile)
	add("- Quantitative score: %s (%s)", formatNumber(result.Quantitative.Score), result.Quantitative.Grade)
	if overlay.Score == nil {
		add("- Qualitative score: %s", schema.GradeNA)
	} else {
		add("- Qualitative score: %s (%s)", formatNumber(*overlay.Score), schema.GradeFromScore(*overlay.Score))
	}
	add("- Final score: %s (%s)", formatNumber(result.Final.Score), result.Final.Grade)
	add("- Hotspot files: %d/%d", selection.EligibleFileCount, selection.TotalFileCount)
	add("")

	add("## Qualitative Overlay")
	add("")
	add("| Criterion | Score (0-4) | Status | Evidence | Note |")
	add("|---|---:|---|---:|---|")
	for _, c := range overlay.Criteria {
		score := schema.GradeNA
		if c.Score != nil {
			score = fmt.Sprintf("%.2f", *c.Score)
		}
		add("| %s | %s | %s | %d | %s |", c.Label, score, c.Status, c.EvidenceCount, c.Reason)
	}
	add("")

	if len(selection.Files) > 0 {
		add("### Hotspot Files")
		add("")
		for _, f := range selection.Files {
			add("- %s (hotspotScore: %s)", f.Path, formatNumber(f.Score))
		}
		add("")
	}

	add("## Cross Signals")
	add("")
	for _, signal := range result.CrossSignals {
		add("- %s", signal)
	}
	add("")

	add("## Critical Flags")
	add("")
	if len(result.CriticalFlags) == 0 {
		add("- None")
	} else {
		for _, flag := range result.CriticalFlags {
			location := flagLocation(flag)
			if location != "" {
				add("- [%s] %s (%s)", flag.Type, flag.Message, location)
			} else {
				add("- [%s] %s", flag.Type, flag.Message)
			}
		}
	}
	add("")

	if len(result.UnavailableMetrics) > 0 {
		add("## Unavailable Metrics")
		add("")
		for _, metric := range result.UnavailableMetrics {
			add("- %s", metric)
		}
		add("")
	}

	return strings.Join(lines, "\n") + "\n"
}

// flagLocation formats file:line, either part optional.
func flagLocation(flag schema.CriticalFlag) string {
	var b strings.Builder
	if flag.File != nil {
		b.WriteString(*flag.File)
	}
	if flag.Line != nil {
		fmt.Fprintf(&b, ":%d", *flag.Line)
	}
	return b.String()
}
