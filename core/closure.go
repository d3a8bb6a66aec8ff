package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// ClosureResult is the bounded import closure of a seed set.
type ClosureResult struct {
	Files     []string
	Truncated bool
	Warnings  []string
}

// BuildImportClosure expands seeds breadth-first through relative imports until
// the visited set reaches limit. The closure is truncated when the walk stops
// with discovered files still unvisited. Non-positive limits use the default.
func BuildImportClosure(ctx context.Context, root string, seeds []string, limit int, extractor contract.ImportExtractor) ClosureResult {
	if limit <= 0 {
		limit = contract.DefaultClosureLimit
	}

	queue := append([]string(nil), seeds...)
	visited := make(map[string]struct{}, len(seeds))
	warnings := []string{}
	truncated := false

	for len(queue) > 0 {
		if ctx.Err() != nil {
			break
		}
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[current]; ok {
			continue
		}
		visited[current] = struct{}{}

		queue = append(queue, closureEdges(ctx, root, current, extractor, visited, &warnings)...)

		if len(visited) >= limit {
			truncated = hasUnvisited(queue, visited)
			break
		}
	}

	files := make([]string, 0, len(visited))
	for f := range visited {
		files = append(files, f)
	}
	return ClosureResult{Files: contract.DedupeSorted(files), Truncated: truncated, Warnings: warnings}
}

// closureEdges reads one visited file and returns its unvisited local imports.
// Missing files contribute no edges and no warning.
func closureEdges(ctx context.Context, root, current string, extractor contract.ImportExtractor, visited map[string]struct{}, warnings *[]string) []string {
	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(current)))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			*warnings = append(*warnings, fmt.Sprintf("failed to read file: %s", current))
		}
		return nil
	}

	sources, err := extractor.ExtractImports(ctx, current, src)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("failed to parse imports: %s", current))
		return nil
	}

	var edges []string
	for _, source := range sources {
		resolved, ok := contract.ResolveImportPath(root, current, source)
		if !ok {
			continue
		}
		if _, seen := visited[resolved]; !seen {
			edges = append(edges, resolved)
		}
	}
	return edges
}

// hasUnvisited reports whether the queue still holds a file the walk never reached.
func hasUnvisited(queue []string, visited map[string]struct{}) bool {
	for _, f := range queue {
		if _, ok := visited[f]; !ok {
			return true
		}
	}
	return false
}

// TargetOptions configures ResolveAnalysisTargets.
type TargetOptions struct {
	Root         string
	Mode         schema.TargetMode
	Target       string
	ClosureLimit int
	Excludes     []string
}

// AnalysisTargets is the final analysis file set.
type AnalysisTargets struct {
	Seeds     []string
	Files     []string
	Truncated bool
	Warnings  []string
}

// ResolveAnalysisTargets resolves the seed set and expands it with the import closure.
// A nil extractor disables the closure and analyzes the seeds only.
func ResolveAnalysisTargets(ctx context.Context, client contract.GitClient, extractor contract.ImportExtractor, opts TargetOptions) AnalysisTargets {
	seedResult := ResolveTargets(ctx, client, opts.Root, opts.Mode, opts.Target)
	seeds := filterExcluded(seedResult.Files, opts.Excludes)
	warnings := append([]string{}, seedResult.Warnings...)

	if len(seeds) == 0 {
		return AnalysisTargets{Seeds: []string{}, Files: []string{}, Warnings: warnings}
	}

	if extractor == nil {
		warnings = append(warnings, "import-closure.disabled:missing-ast-toolchain")
		return AnalysisTargets{Seeds: seeds, Files: seeds, Warnings: warnings}
	}

	closure := BuildImportClosure(ctx, opts.Root, seeds, opts.ClosureLimit, extractor)
	warnings = append(warnings, closure.Warnings...)
	return AnalysisTargets{
		Seeds:     seeds,
		Files:     filterExcluded(closure.Files, opts.Excludes),
		Truncated: closure.Truncated,
		Warnings:  warnings,
	}
}

// filterExcluded drops the files matching the user exclude patterns.
func filterExcluded(files []string, excludes []string) []string {
	filtered := make([]string, 0, len(files))
	for _, f := range files {
		if !contract.ShouldIgnore(f, excludes) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
