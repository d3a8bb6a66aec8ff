package core

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// SeedResult is the resolved change set.
type SeedResult struct {
	Files    []string
	Warnings []string
}

// ResolveTargets turns a change-set mode into the sorted list of candidate seed files.
// Resolution never fails: git errors and missing targets become warnings with an empty set.
func ResolveTargets(ctx context.Context, client contract.GitClient, root string, mode schema.TargetMode, target string) SeedResult {
	var raw []string

	switch mode {
	case schema.FilesMode:
		for _, f := range contract.SplitTargetFiles(target) {
			raw = append(raw, cleanTargetPath(root, f))
		}
	case schema.BranchMode, schema.RangeMode:
		if strings.TrimSpace(target) == "" {
			return SeedResult{Files: []string{}, Warnings: []string{fmt.Sprintf("mode=%s requires --target", mode)}}
		}
		fallthrough
	default:
		if _, ok := schema.ValidTargetModes[mode]; !ok {
			mode = schema.WorkingMode
		}
		files, err := client.ChangedFiles(ctx, root, mode, target)
		if err != nil {
			return SeedResult{Files: []string{}, Warnings: []string{fmt.Sprintf("failed to resolve changed files: %v", err)}}
		}
		raw = files
	}

	candidates := make([]string, 0, len(raw))
	for _, f := range raw {
		f = contract.NormalizeSlashes(f)
		if f != "" && contract.IsCandidateFile(f) {
			candidates = append(candidates, f)
		}
	}
	return SeedResult{Files: contract.DedupeSorted(candidates), Warnings: []string{}}
}

// cleanTargetPath makes an explicit file argument root-relative and slash-clean.
func cleanTargetPath(root, file string) string {
	file = contract.NormalizeSlashes(file)
	if filepath.IsAbs(filepath.FromSlash(file)) {
		file = contract.ToRelativePath(root, filepath.FromSlash(file))
	}
	return path.Clean(file)
}
