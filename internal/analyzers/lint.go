package analyzers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"gopkg.in/yaml.v3"
)

// Lint rule ids carrying complexity values.
const (
	cyclomaticRule = "complexity"
	cognitiveRule  = "sonarjs/cognitive-complexity"
)

// lintReport is a typed lint-metrics report. YAML is a superset of JSON, so
// both encodings decode through yaml.v3.
type lintReport struct {
	Files []struct {
		Path     string `yaml:"path"`
		Findings []struct {
			RuleID string   `yaml:"ruleId"`
			Value  *float64 `yaml:"value"`
		} `yaml:"findings"`
	} `yaml:"files"`
}

// LintCollector reads per-file complexity values from a lint-metrics report.
type LintCollector struct {
	reportPath string
}

// NewLintCollector returns a collector for the report at reportPath.
func NewLintCollector(reportPath string) *LintCollector {
	return &LintCollector{reportPath: reportPath}
}

// Name implements Collaborator.
func (c *LintCollector) Name() string { return "eslint" }

// Collect implements Collaborator. Only target files listed in the report get a record;
// each value is the maximum over the file's findings, or absent.
func (c *LintCollector) Collect(_ context.Context, req Request) Result {
	result := newResult()
	if len(req.Files) == 0 {
		return result
	}

	reportPath := c.reportPath
	if reportPath == "" {
		result.Unavailable = append(result.Unavailable, "eslint.report-not-found")
		return result
	}

	data, err := os.ReadFile(reportPath)
	if errors.Is(err, fs.ErrNotExist) {
		result.Unavailable = append(result.Unavailable, "eslint.report-not-found")
		return result
	}
	if err != nil {
		result.Unavailable = append(result.Unavailable, fmt.Sprintf("eslint.read-failed:%v", err))
		return result
	}

	var report lintReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		result.Unavailable = append(result.Unavailable, fmt.Sprintf("eslint.invalid-report:%v", err))
		return result
	}

	targets := targetSet(req.Files)
	for _, f := range report.Files {
		if f.Path == "" {
			continue
		}
		rel := contract.ToRelativePath(req.Root, filepath.FromSlash(f.Path))
		if _, ok := targets[rel]; !ok {
			continue
		}

		var patch schema.MetricPatch
		for _, finding := range f.Findings {
			if finding.Value == nil {
				continue
			}
			switch finding.RuleID {
			case cyclomaticRule:
				patch.Cyclomatic = maxOf(patch.Cyclomatic, *finding.Value)
			case cognitiveRule:
				patch.Cognitive = maxOf(patch.Cognitive, *finding.Value)
			}
		}
		result.ByFile[rel] = patch
	}
	return result
}

// maxOf returns the larger of an optional current value and v.
func maxOf(current *float64, v float64) *float64 {
	if current == nil || v > *current {
		return schema.Float(v)
	}
	return current
}

// targetSet indexes the analyzed files.
func targetSet(files []string) map[string]struct{} {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return set
}
