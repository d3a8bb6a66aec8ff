// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/gihwan-dev/codehealth/schema"
)

// GitClient defines the Git operations needed to resolve change sets and churn.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// --- Change Sets ---

	// ChangedFiles returns the paths reported by `git diff --name-only` for the
	// given target mode. The target is ignored for working and staged modes.
	ChangedFiles(ctx context.Context, repoPath string, mode schema.TargetMode, target string) ([]string, error)

	// --- Churn Logs ---

	// NumstatLog returns the raw `git log --numstat` output for the given files
	// over the last windowDays days. Each commit starts with a CommitMarker line.
	NumstatLog(ctx context.Context, repoPath string, windowDays int, files []string) ([]byte, error)
}

// ImportExtractor returns the raw import sources referenced by one source file.
// Sources include static imports, re-exports, dynamic import() and require()
// calls with a string literal argument.
type ImportExtractor interface {
	ExtractImports(ctx context.Context, path string, src []byte) ([]string, error)
}

// HistoryStore defines the interface for persisting scorecard runs.
type HistoryStore interface {
	// RecordScorecard stores one run and its per-file scores.
	RecordScorecard(run schema.ScorecardRunRecord, files []schema.FileScoreRecord) error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.ScorecardRunRecord, error)

	// GetAllFileScores returns every recorded per-file score.
	GetAllFileScores() ([]schema.FileScoreRecord, error)

	// Clear removes all recorded history.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
