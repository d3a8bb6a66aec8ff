package analyzers

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gihwan-dev/codehealth/internal/contract"
)

// Mutant statuses that matter for scoring.
const (
	mutantKilled  = "Killed"
	mutantIgnored = "Ignored"
)

// MutationReport is the subset of a stryker mutation-testing report we read.
type MutationReport struct {
	Metrics struct {
		MutationScore *float64 `json:"mutationScore"`
	} `json:"metrics"`
	Files map[string]struct {
		Mutants []struct {
			Status string `json:"status"`
		} `json:"mutants"`
		Metrics struct {
			MutationScore *float64 `json:"mutationScore"`
		} `json:"metrics"`
	} `json:"files"`
}

// FindMutationReport looks for a stryker report below root. The conventional
// reports/mutation location wins, then the shallowest mutation-report.json,
// then the shallowest stryker-report.json.
func FindMutationReport(root string) string {
	direct := filepath.Join(root, "reports", "mutation", "mutation-report.json")
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	if path := findShallowest(root, "mutation-report.json"); path != "" {
		return path
	}
	return findShallowest(root, "stryker-report.json")
}

// LoadMutationReport reads the report at path. Unreadable or malformed files yield nil.
func LoadMutationReport(path string) *MutationReport {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var report MutationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

// Scores returns the mutation score per root-relative path. A file with
// mutants scores killed/(non-ignored)*100, or nil when every mutant was
// ignored. A file without mutants falls back to its own metrics. Target files
// the report does not mention take the global score when there is one.
func (r *MutationReport) Scores(root string, files []string) map[string]*float64 {
	scores := make(map[string]*float64)
	if r == nil {
		return scores
	}

	for raw, info := range r.Files {
		rel := contract.NormalizeSlashes(raw)
		if filepath.IsAbs(filepath.FromSlash(raw)) {
			rel = contract.ToRelativePath(root, filepath.FromSlash(raw))
		}

		if len(info.Mutants) > 0 {
			var relevant, killed int
			for _, m := range info.Mutants {
				if m.Status == mutantIgnored {
					continue
				}
				relevant++
				if m.Status == mutantKilled {
					killed++
				}
			}
			if relevant == 0 {
				scores[rel] = nil
				continue
			}
			score := float64(killed) / float64(relevant) * 100
			scores[rel] = &score
			continue
		}

		if info.Metrics.MutationScore != nil {
			score := *info.Metrics.MutationScore
			scores[rel] = &score
		}
	}

	if global := r.Metrics.MutationScore; global != nil {
		for _, f := range files {
			if _, ok := scores[f]; !ok {
				score := *global
				scores[f] = &score
			}
		}
	}
	return scores
}
