package analyzers

import (
	"context"
	"os/exec"
	"sort"

	"github.com/gihwan-dev/codehealth/schema"
)

// Toolchain component names reported in ToolchainStatus.
const (
	GitTool        = "git"
	TreeSitterTool = "tree-sitter"
	TSCTool        = "tsc"
)

// LocalToolchain checks the host for the tools the collaborators need.
type LocalToolchain struct {
	lookPath   func(file string) (string, error)
	treeSitter bool
}

var _ ToolchainChecker = &LocalToolchain{} // Compile-time check

// NewLocalToolchain returns a checker for the current host.
func NewLocalToolchain() *LocalToolchain {
	return &LocalToolchain{lookPath: exec.LookPath, treeSitter: TreeSitterAvailable}
}

// Check implements ToolchainChecker. git and the compiled-in parsers are
// required; tsc is optional and only reported.
func (t *LocalToolchain) Check(_ context.Context) schema.ToolchainStatus {
	status := schema.ToolchainStatus{
		MissingPackages: []string{},
		Optional:        map[string]bool{},
		Details:         map[string]string{},
	}

	if path, err := t.lookPath(GitTool); err == nil {
		status.Details[GitTool] = path
	} else {
		status.MissingPackages = append(status.MissingPackages, GitTool)
		status.Details[GitTool] = "not found on PATH"
	}

	if t.treeSitter {
		status.Details[TreeSitterTool] = "compiled in"
	} else {
		status.MissingPackages = append(status.MissingPackages, TreeSitterTool)
		status.Details[TreeSitterTool] = "binary built without cgo"
	}

	if path, err := t.lookPath(TSCTool); err == nil {
		status.Optional[TSCTool] = true
		status.Details[TSCTool] = path
	} else {
		status.Optional[TSCTool] = false
		status.Details[TSCTool] = "not found on PATH"
	}

	sort.Strings(status.MissingPackages)
	status.Ready = len(status.MissingPackages) == 0
	return status
}
