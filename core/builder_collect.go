package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gihwan-dev/codehealth/internal/analyzers"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"golang.org/x/sync/errgroup"
)

// CollectResultBuilder builds the quantitative metrics document using a builder pattern.
type CollectResultBuilder struct {
	ctx    context.Context
	cfg    *contract.Config
	client contract.GitClient
	suite  *analyzers.Suite

	toolchain schema.ToolchainStatus
	targets   AnalysisTargets
	results   []analyzers.Result // one slot per collaborator, in merge order
	files     []schema.FileEntry
	axes      AxesResult
	result    *schema.QuantDocument
}

// NewCollectResultBuilder creates a new builder for the quantitative document.
func NewCollectResultBuilder(ctx context.Context, cfg *contract.Config, client contract.GitClient, suite *analyzers.Suite) *CollectResultBuilder {
	return &CollectResultBuilder{
		ctx:    ctx,
		cfg:    cfg,
		client: client,
		suite:  suite,
	}
}

// CheckToolchain decides between full and degraded analysis.
func (b *CollectResultBuilder) CheckToolchain() *CollectResultBuilder {
	b.toolchain = b.suite.Toolchain.Check(b.ctx)
	return b
}

// ResolveTargets resolves the seed files and expands them with the import closure.
// The closure needs the parsers, so degraded runs analyze the seeds only.
func (b *CollectResultBuilder) ResolveTargets() *CollectResultBuilder {
	var extractor contract.ImportExtractor
	if b.toolchain.Ready {
		extractor = b.suite.Extractor
	}
	b.targets = ResolveAnalysisTargets(b.ctx, b.client, extractor, TargetOptions{
		Root:         b.cfg.ProjectRoot,
		Mode:         b.cfg.Mode,
		Target:       b.cfg.Target,
		ClosureLimit: b.cfg.ClosureLimit,
		Excludes:     b.cfg.Excludes,
	})
	return b
}

// RunCollaborators runs every collaborator concurrently, bounded by the worker count.
// A collaborator failure is reported in its own result and never stops the others.
func (b *CollectResultBuilder) RunCollaborators() (*CollectResultBuilder, error) {
	ordered := b.suite.Ordered()
	b.results = make([]analyzers.Result, len(ordered))
	req := analyzers.Request{
		Root:       b.cfg.ProjectRoot,
		Files:      b.targets.Files,
		WindowDays: b.cfg.WindowDays,
	}

	g, gctx := errgroup.WithContext(b.ctx)
	g.SetLimit(max(1, b.cfg.Workers))
	for i, c := range ordered {
		if !b.toolchain.Ready && !b.suite.RunsWithoutToolchain(c) {
			b.results[i] = analyzers.Skipped(c.Name())
			continue
		}
		g.Go(func() error {
			b.results[i] = c.Collect(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := b.ctx.Err(); err != nil {
		return nil, fmt.Errorf("metric collection interrupted: %w", err)
	}
	return b, nil
}

// MergeMetrics folds the collaborator results into one record per target file.
func (b *CollectResultBuilder) MergeMetrics() *CollectResultBuilder {
	sources := make([]map[string]schema.MetricPatch, 0, len(b.results))
	for _, r := range b.results {
		sources = append(sources, r.ByFile)
	}
	merged := MergeFileMetrics(b.targets.Files, sources...)

	b.files = make([]schema.FileEntry, 0, len(merged))
	for _, path := range SortedPaths(merged) {
		metrics := merged[path]
		b.files = append(b.files, schema.FileEntry{
			Path:         path,
			Metrics:      metrics,
			HotspotScore: schema.Float(HotspotScore(metrics, b.cfg.Calibration.Hotspot)),
		})
	}
	return b
}

// ComputeScores scores the four axes and the overall quantitative score.
func (b *CollectResultBuilder) ComputeScores() *CollectResultBuilder {
	b.axes = ComputeAxes(b.files, b.cfg.Calibration.Axes)
	return b
}

// BuildResult constructs the final QuantDocument.
func (b *CollectResultBuilder) BuildResult() *CollectResultBuilder {
	mode := schema.FullAnalysis
	if !b.toolchain.Ready {
		mode = schema.DegradedAnalysis
	}

	b.result = &schema.QuantDocument{
		SchemaVersion: schema.QuantSchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		Profile:       b.cfg.Profile,
		AnalysisMode:  mode,
		AnalysisScope: schema.AnalysisScope{
			Mode:              b.cfg.Mode,
			Target:            b.cfg.Target,
			WindowDays:        b.cfg.WindowDays,
			ClosureLimit:      b.cfg.ClosureLimit,
			SeedFileCount:     len(b.targets.Seeds),
			AnalyzedFileCount: len(b.files),
		},
		Files:              b.files,
		Axes:               b.axes.Axes,
		Summary:            b.axes.Summary,
		UnavailableMetrics: b.unavailable(),
	}
	return b
}

// GetResult returns the built QuantDocument.
func (b *CollectResultBuilder) GetResult() *schema.QuantDocument {
	return b.result
}

// unavailable lists what could not be measured: toolchain gaps, target
// warnings, the closure truncation, each collaborator in merge order, then
// empty axes. Duplicates keep their first position.
func (b *CollectResultBuilder) unavailable() []string {
	var all []string
	if !b.toolchain.Ready {
		missing := strings.Join(b.toolchain.MissingPackages, ",")
		if missing == "" {
			missing = "unknown-packages"
		}
		all = append(all, fmt.Sprintf("toolchain.missing:%s", missing))
	}
	all = append(all, b.targets.Warnings...)
	if b.targets.Truncated {
		all = append(all, fmt.Sprintf("import-closure.truncated: limit=%d, seeds=%d", b.cfg.ClosureLimit, len(b.targets.Seeds)))
	}
	for _, r := range b.results {
		all = append(all, r.Unavailable...)
	}
	all = append(all, b.axes.Unavailable...)
	return dedupeUnavailable(all)
}

// dedupeUnavailable drops empty and repeated entries, keeping first occurrences in order.
func dedupeUnavailable(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
