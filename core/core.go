// Package core has the scoring pipeline: target resolution, import closure,
// metric merge, axes, hotspot selection, qualitative overlay and the final blend.
package core

import (
	"context"
	"time"

	"github.com/gihwan-dev/codehealth/internal/analyzers"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/outwriter"
	"github.com/gihwan-dev/codehealth/schema"
)

// ExecutorFunc defines the function signature for the pipeline commands.
// store is nil when history tracking is disabled.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error

// ExecuteCollect computes the quantitative metrics document and writes it
// together with the unavailable-metrics document.
func ExecuteCollect(ctx context.Context, cfg *contract.Config, _ contract.HistoryStore) error {
	start := time.Now()
	doc, err := CollectQuantDocument(ctx, cfg)
	if err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	if err := ow.WriteQuantDocument(doc, cfg); err != nil {
		return err
	}
	if shouldSuppressSummary(ctx) {
		return nil
	}
	return ow.WriteCollectSummary(doc, cfg, time.Since(start))
}

// CollectQuantDocument runs the collect pipeline against the local repository
// without writing anything.
func CollectQuantDocument(ctx context.Context, cfg *contract.Config) (*schema.QuantDocument, error) {
	client := contract.NewLocalGitClient()
	return collectWith(ctx, cfg, client, analyzers.NewSuite(cfg, client))
}

// collectWith runs every collect step with the given git client and collaborators.
func collectWith(ctx context.Context, cfg *contract.Config, client contract.GitClient, suite *analyzers.Suite) (*schema.QuantDocument, error) {
	builder := NewCollectResultBuilder(ctx, cfg, client, suite).
		CheckToolchain().
		ResolveTargets()

	if _, err := builder.RunCollaborators(); err != nil {
		return nil, err
	}

	return builder.
		MergeMetrics().
		ComputeScores().
		BuildResult().
		GetResult(), nil
}

// ExecuteScorecard builds the scorecard from the quantitative document and the
// optional review, writes the JSON result and the markdown report, and records
// the run when a history store is configured.
func ExecuteScorecard(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	start := time.Now()

	builder, err := NewScorecardResultBuilder(ctx, cfg).LoadInputs()
	if err != nil {
		return err
	}
	result := builder.
		ResolveQuantitative().
		SelectHotspots().
		MergeOverlay().
		BlendScores().
		BuildResult().
		GetResult()

	ow := outwriter.NewOutWriter()
	if err := ow.WriteScorecard(result, cfg); err != nil {
		return err
	}
	RecordHistory(store, result, cfg.Calibration.Hotspot)

	if shouldSuppressSummary(ctx) {
		return nil
	}
	return ow.WriteScorecardSummary(result, cfg, time.Since(start))
}

// ExecuteRun runs collect and then scorecard on the document collect just wrote.
// Only the scorecard summary is printed.
func ExecuteRun(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	if err := ExecuteCollect(withSuppressSummary(ctx), cfg.Clone(), nil); err != nil {
		return err
	}
	scoreCfg := cfg.Clone()
	scoreCfg.QuantPath = cfg.OutQuant
	return ExecuteScorecard(ctx, scoreCfg, store)
}

// ExecuteToolchain reports whether the host can run a full analysis.
func ExecuteToolchain(ctx context.Context, cfg *contract.Config, _ contract.HistoryStore) error {
	status := analyzers.NewLocalToolchain().Check(ctx)
	return outwriter.NewOutWriter().WriteToolchain(status, cfg)
}

// RecordHistory stores the run when store is set. Store failures are logged,
// never returned.
func RecordHistory(store contract.HistoryStore, result *schema.ScorecardResult, cal schema.HotspotCalibration) {
	if store == nil {
		return
	}
	run, files := HistoryRecords(result, cal)
	if err := store.RecordScorecard(run, files); err != nil {
		contract.LogWarn("Failed to record scorecard history", err)
	}
}
