package analyzers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
)

// CoverageFileName is the istanbul json-summary report.
const CoverageFileName = "coverage-summary.json"

// coverageTotals is one entry of an istanbul summary. Percentages are numbers,
// or the string "Unknown" when nothing was instrumented.
type coverageTotals struct {
	Lines struct {
		Pct any `json:"pct"`
	} `json:"lines"`
	Branches struct {
		Pct any `json:"pct"`
	} `json:"branches"`
}

// CoverageSummary maps report keys to their totals.
type CoverageSummary map[string]coverageTotals

// FindCoverageSummary returns root/coverage/coverage-summary.json, or else the
// shallowest coverage summary below root. It returns "" when there is none.
func FindCoverageSummary(root string) string {
	direct := filepath.Join(root, "coverage", CoverageFileName)
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	return findShallowest(root, CoverageFileName)
}

// LoadCoverageSummary reads the summary at path. Unreadable or malformed files yield nil.
func LoadCoverageSummary(path string) CoverageSummary {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var summary CoverageSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return summary
}

// Lookup returns the line and branch percentages of a root-relative file.
// Keys are tried as rel, ./rel, the absolute path, then the absolute path
// with the root prefix stripped.
func (s CoverageSummary) Lookup(root, rel string) (line, branch *float64, found bool) {
	if s == nil {
		return nil, nil, false
	}
	rel = contract.NormalizeSlashes(rel)
	normRoot := contract.NormalizeSlashes(root)
	abs := contract.NormalizeSlashes(filepath.Join(root, filepath.FromSlash(rel)))

	keys := []string{rel, "./" + rel, abs, strings.TrimPrefix(abs, normRoot+"/")}
	for _, key := range keys {
		entry, ok := s[key]
		if !ok {
			continue
		}
		return percent(entry.Lines.Pct), percent(entry.Branches.Pct), true
	}
	return nil, nil, false
}

// percent keeps numeric percentages only.
func percent(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
