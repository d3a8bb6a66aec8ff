package outwriter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// topHotspotRows is how many files the collect summary lists.
const topHotspotRows = 10

// collectSummary is the JSON form of the collect summary.
type collectSummary struct {
	AnalysisMode     string                `json:"analysisMode"`
	AnalysisScope    schema.AnalysisScope  `json:"analysisScope"`
	Axes             schema.AxisSet        `json:"axes"`
	Summary          schema.QuantSummary   `json:"summary"`
	TopHotspots      []schema.HotspotEntry `json:"topHotspots"`
	UnavailableCount int                   `json:"unavailableCount"`
	DurationMs       int64                 `json:"durationMs"`
}

// PrintCollectSummary prints the axes and the hottest files of a quantitative document.
func PrintCollectSummary(w io.Writer, doc *schema.QuantDocument, cfg *contract.Config, duration time.Duration) error {
	top := topHotspots(doc.Files, topHotspotRows)

	if cfg.Output == schema.JSONOut {
		return writeJSON(w, collectSummary{
			AnalysisMode:     doc.AnalysisMode,
			AnalysisScope:    doc.AnalysisScope,
			Axes:             doc.Axes,
			Summary:          doc.Summary,
			TopHotspots:      top,
			UnavailableCount: len(doc.UnavailableMetrics),
			DurationMs:       duration.Milliseconds(),
		})
	}

	if err := writeAxesTable(w, doc.Axes, cfg); err != nil {
		return err
	}
	if len(top) > 0 {
		if err := writeHotspotTable(w, top, doc.Files, cfg); err != nil {
			return err
		}
	}

	scope := doc.AnalysisScope
	if _, err := fmt.Fprintf(w, "Quantitative score: %s (%s) | mode: %s | files: %d (seeds: %d) | unavailable metrics: %d\n",
		formatNumber(doc.Summary.QuantitativeScore), gradeLabel(doc.Summary.QuantitativeGrade, cfg),
		doc.AnalysisMode, scope.AnalyzedFileCount, scope.SeedFileCount, len(doc.UnavailableMetrics)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Collection completed in %v with %d workers.\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeAxesTable renders the four axes in reporting order.
func writeAxesTable(w io.Writer, axes schema.AxisSet, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Axis", "Weight", "Score", "Grade"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, name := range schema.AllAxes {
		axis, ok := axes[name]
		if !ok {
			continue
		}
		data = append(data, []string{
			string(name),
			strconv.Itoa(axis.Weight),
			formatOptional(axis.Score),
			gradeLabel(schema.GradeFromOptional(axis.Score), cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeHotspotTable renders the ranked hotspot files with their churn and instability.
func writeHotspotTable(w io.Writer, top []schema.HotspotEntry, files []schema.FileEntry, cfg *contract.Config) error {
	byPath := make(map[string]schema.FileMetrics, len(files))
	for _, f := range files {
		byPath[f.Path] = f.Metrics
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Hotspot", "Churn", "Instability"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, h := range top {
		m := byPath[h.Path]
		churn := schema.GradeNA
		if m.ChurnLines != nil {
			churn = strconv.Itoa(*m.ChurnLines)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(h.Path, maxWidth),
			formatNumber(h.Score),
			churn,
			formatOptional(m.Instability),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// topHotspots ranks the scored files by hotspot score, ties broken by path.
func topHotspots(files []schema.FileEntry, limit int) []schema.HotspotEntry {
	entries := make([]schema.HotspotEntry, 0, len(files))
	for _, f := range files {
		if f.HotspotScore == nil {
			continue
		}
		entries = append(entries, schema.HotspotEntry{Path: f.Path, Score: *f.HotspotScore})
	}
	slices.SortStableFunc(entries, func(a, b schema.HotspotEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
