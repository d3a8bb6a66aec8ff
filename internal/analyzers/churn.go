package analyzers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// ChurnCollector sums changed lines and commits per file over the window.
type ChurnCollector struct {
	client contract.GitClient
}

// NewChurnCollector returns a churn collector backed by client.
func NewChurnCollector(client contract.GitClient) *ChurnCollector {
	return &ChurnCollector{client: client}
}

// Name implements Collaborator.
func (c *ChurnCollector) Name() string { return "churn" }

// Collect implements Collaborator. Every target gets a record, zero when git
// reported no commits for it.
func (c *ChurnCollector) Collect(ctx context.Context, req Request) Result {
	result := newResult()
	if len(req.Files) == 0 {
		return result
	}

	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = contract.DefaultWindowDays
	}

	out, err := c.client.NumstatLog(ctx, req.Root, windowDays, req.Files)
	if err != nil {
		result.Unavailable = append(result.Unavailable, fmt.Sprintf("git.log-failed:%s", strings.TrimSpace(err.Error())))
		return result
	}

	for rel, totals := range ParseNumstat(out, req.Files) {
		result.ByFile[rel] = schema.MetricPatch{FileMetrics: schema.FileMetrics{
			ChurnLines:   schema.Int(totals.Lines),
			ChurnTouches: schema.Int(totals.Touches),
		}}
	}
	return result
}

// ChurnTotals is the churn of one file over the window.
type ChurnTotals struct {
	Lines   int
	Touches int
}

// ParseNumstat folds `git log --numstat` output into totals for files. Rows
// for other paths are ignored. Binary rows ("-") count as zero lines but
// still count as a touch.
func ParseNumstat(out []byte, files []string) map[string]ChurnTotals {
	totals := make(map[string]ChurnTotals, len(files))
	for _, f := range files {
		totals[f] = ChurnTotals{}
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == contract.CommitMarker {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}

		path := contract.NormalizeSlashes(parts[2])
		current, ok := totals[path]
		if !ok {
			continue
		}
		current.Lines += numstatCount(parts[0]) + numstatCount(parts[1])
		current.Touches++
		totals[path] = current
	}
	return totals
}

// numstatCount parses one numstat column; "-" and garbage count as zero.
func numstatCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
