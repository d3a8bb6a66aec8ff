//go:build integration

// Package integration contains integration tests for codehealth.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quantOutput is the subset of the metrics document the verification reads.
type quantOutput struct {
	AnalysisMode  string `json:"analysisMode"`
	AnalysisScope struct {
		SeedFileCount     int `json:"seedFileCount"`
		AnalyzedFileCount int `json:"analyzedFileCount"`
	} `json:"analysisScope"`
	Files []struct {
		Path    string `json:"path"`
		Metrics struct {
			ChurnLines *int `json:"churnLines"`
		} `json:"metrics"`
	} `json:"files"`
	UnavailableMetrics []string `json:"unavailableMetrics"`
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

func writeSource(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// newFixtureRepo creates a repository with two commits and one uncommitted change.
func newFixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git(t, dir, "init", "-q")

	writeSource(t, dir, "src/util.ts", "export const twice = (n: number) => n * 2;\n")
	writeSource(t, dir, "src/app.ts", "import { twice } from './util';\nexport const run = () => twice(2);\n")
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "initial")

	writeSource(t, dir, "src/util.ts", "export const twice = (n: number) => n * 2;\nexport const thrice = (n: number) => n * 3;\n")
	git(t, dir, "commit", "-q", "-am", "add thrice")

	writeSource(t, dir, "src/app.ts", "import { twice } from './util';\nexport const run = (n: number) => {\n  if (n > 0) {\n    return twice(n);\n  }\n  return 0;\n};\n")
	return dir
}

// numstatChurn sums added and deleted lines for file the way git reports them.
func numstatChurn(t *testing.T, dir, file string) int {
	out := git(t, dir, "log", "--numstat", "--format=", "--since=90.days", "--", file)
	total := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		added, _ := strconv.Atoi(fields[0])
		deleted, _ := strconv.Atoi(fields[1])
		total += added + deleted
	}
	return total
}

// TestCollectVerification runs collect on a fixture repository and verifies
// the closure and the churn against git.
func TestCollectVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repo := newFixtureRepo(t)
	out := filepath.Join(t.TempDir(), "quant.json")

	_, err := runCodehealth(t, repo, nil, "collect", "--out", out, "--auto-detect-tsc", "no")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc quantOutput
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 1, doc.AnalysisScope.SeedFileCount)
	paths := make(map[string]*int, len(doc.Files))
	for _, f := range doc.Files {
		paths[f.Path] = f.Metrics.ChurnLines
	}
	assert.Contains(t, paths, "src/app.ts")

	if doc.AnalysisMode == "full" {
		// The closure follows ./util from the changed file.
		require.Contains(t, paths, "src/util.ts")
		assert.Equal(t, 2, doc.AnalysisScope.AnalyzedFileCount)
	}

	for path, churn := range paths {
		t.Run(path, func(t *testing.T) {
			require.NotNil(t, churn, "churn is measured in both analysis modes")
			assert.Equal(t, numstatChurn(t, repo, path), *churn, "churn mismatch for %s", path)
		})
	}
}

// TestRunVerification runs the whole pipeline and checks the result documents.
func TestRunVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repo := newFixtureRepo(t)
	outDir := t.TempDir()

	_, err := runCodehealth(t, repo, nil, "run",
		"--auto-detect-tsc", "no",
		"--out", filepath.Join(outDir, "quant.json"),
		"--out-json", filepath.Join(outDir, "result.json"),
		"--out-md", filepath.Join(outDir, "result.md"),
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "result.json"))
	require.NoError(t, err)
	var result struct {
		Final struct {
			Score float64 `json:"score"`
			Grade string  `json:"grade"`
		} `json:"final"`
		UnavailableMetrics []string `json:"unavailableMetrics"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.GreaterOrEqual(t, result.Final.Score, 0.0)
	assert.LessOrEqual(t, result.Final.Score, 100.0)
	assert.NotEmpty(t, result.Final.Grade)
	assert.Contains(t, result.UnavailableMetrics, "qualitative-overlay-input: --qual file was not provided")

	report, err := os.ReadFile(filepath.Join(outDir, "result.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Code Health Result")
}
