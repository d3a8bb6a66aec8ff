package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gihwan-dev/codehealth/schema"
)

// CommitMarker separates commits in the numstat log.
const CommitMarker = "__COMMIT__"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// DiffArgs returns the `git diff` arguments for a change-set mode.
// Files mode has no git equivalent and returns nil.
func DiffArgs(mode schema.TargetMode, target string) []string {
	switch mode {
	case schema.StagedMode:
		return []string{"diff", "--cached", "--name-only"}
	case schema.BranchMode:
		return []string{"diff", target + "...HEAD", "--name-only"}
	case schema.RangeMode:
		return []string{"diff", target, "--name-only"}
	case schema.FilesMode:
		return nil
	default:
		return []string{"diff", "--name-only"}
	}
}

// ChangedFiles implements the GitClient interface.
func (c *LocalGitClient) ChangedFiles(ctx context.Context, repoPath string, mode schema.TargetMode, target string) ([]string, error) {
	args := DiffArgs(mode, target)
	if args == nil {
		return []string{}, nil
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// NumstatLog implements the GitClient interface.
func (c *LocalGitClient) NumstatLog(ctx context.Context, repoPath string, windowDays int, files []string) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--pretty=format:" + CommitMarker,
		fmt.Sprintf("--since=%d.days", windowDays),
		"--",
	}
	args = append(args, files...)
	return c.Run(ctx, repoPath, args...)
}

// splitLines splits git output into trimmed, non-empty lines.
func splitLines(out []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}
