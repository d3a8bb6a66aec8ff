// Package outwriter writes result documents and terminal summaries.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// OutWriter provides a unified interface for all output operations.
// Documents go to the paths in the config; summaries go to out.
type OutWriter struct {
	out io.Writer
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{out: os.Stdout}
}

// WriteQuantDocument writes the quantitative metrics document and the
// unavailable-metrics side document.
func (ow *OutWriter) WriteQuantDocument(doc *schema.QuantDocument, cfg *contract.Config) error {
	if err := writeDocument(cfg.OutQuant, func(w io.Writer) error {
		return writeJSON(w, doc)
	}, "Wrote quantitative metrics"); err != nil {
		return err
	}
	side := schema.UnavailableDocument{UnavailableMetrics: doc.UnavailableMetrics}
	return writeDocument(cfg.OutUnavailable, func(w io.Writer) error {
		return writeJSON(w, side)
	}, "Wrote unavailable metrics")
}

// WriteScorecard writes the result document and the markdown report.
func (ow *OutWriter) WriteScorecard(result *schema.ScorecardResult, cfg *contract.Config) error {
	if err := writeDocument(cfg.OutJSON, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote scorecard"); err != nil {
		return err
	}
	return writeDocument(cfg.OutMarkdown, func(w io.Writer) error {
		_, err := io.WriteString(w, RenderMarkdown(result))
		return err
	}, "Wrote report")
}

// WriteCollectSummary prints the collect summary in the configured output format.
func (ow *OutWriter) WriteCollectSummary(doc *schema.QuantDocument, cfg *contract.Config, duration time.Duration) error {
	return PrintCollectSummary(ow.out, doc, cfg, duration)
}

// WriteScorecardSummary prints the scorecard summary in the configured output format.
func (ow *OutWriter) WriteScorecardSummary(result *schema.ScorecardResult, cfg *contract.Config, duration time.Duration) error {
	return PrintScorecardSummary(ow.out, result, cfg, duration)
}

// WriteToolchain prints the toolchain readiness report.
func (ow *OutWriter) WriteToolchain(status schema.ToolchainStatus, cfg *contract.Config) error {
	return PrintToolchainStatus(ow.out, status, cfg)
}

// WriteHistoryStatus prints the history store status.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return PrintHistoryStatus(ow.out, status, cfg)
}
