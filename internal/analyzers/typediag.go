package analyzers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// tscDiagnostic matches one `tsc --pretty false` error line: path(line,col): error TSxxxx: ...
var tscDiagnostic = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\): error TS\d+:`)

// skippedDirs are never searched for project files.
var skippedDirs = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	"build":        {},
	".next":        {},
	".git":         {},
}

// TypeDiagnosticsCollector counts type-checker errors per file.
type TypeDiagnosticsCollector struct {
	diagnosticsPath string
	autoDetect      bool

	lookPath func(file string) (string, error)
	runTSC   func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewTypeDiagnosticsCollector reads diagnostics from diagnosticsPath, or runs tsc
// when autoDetect is set and tsc is on PATH.
func NewTypeDiagnosticsCollector(diagnosticsPath string, autoDetect bool) *TypeDiagnosticsCollector {
	return &TypeDiagnosticsCollector{
		diagnosticsPath: diagnosticsPath,
		autoDetect:      autoDetect,
		lookPath:        exec.LookPath,
		runTSC:          runTSC,
	}
}

// Name implements Collaborator.
func (c *TypeDiagnosticsCollector) Name() string { return "typescript" }

// Collect implements Collaborator. Every target gets a count, zero when the
// checker reported nothing for it.
func (c *TypeDiagnosticsCollector) Collect(ctx context.Context, req Request) Result {
	result := newResult()
	if len(req.Files) == 0 {
		return result
	}

	output, reason := c.diagnostics(ctx, req.Root)
	if reason != "" {
		result.Unavailable = append(result.Unavailable, reason)
		return result
	}

	counts := ParseTSCOutput(req.Root, output)
	for _, rel := range req.Files {
		result.ByFile[rel] = schema.MetricPatch{FileMetrics: schema.FileMetrics{TypeDiagnosticCount: schema.Int(counts[rel])}}
	}
	return result
}

// diagnostics returns the raw checker output, or the unavailable entry explaining why there is none.
func (c *TypeDiagnosticsCollector) diagnostics(ctx context.Context, root string) ([]byte, string) {
	if c.diagnosticsPath != "" {
		data, err := os.ReadFile(c.diagnosticsPath)
		if err != nil {
			return nil, fmt.Sprintf("typescript.skipped:diagnostics-unreadable:%v", err)
		}
		return data, ""
	}

	if !c.autoDetect {
		return nil, "typescript.skipped:no-diagnostics-source"
	}
	if _, err := c.lookPath("tsc"); err != nil {
		return nil, "typescript.skipped:tsc-not-found"
	}
	tsconfig := FindTSConfig(root)
	if tsconfig == "" {
		return nil, "typescript.tsconfig-not-found"
	}

	out, err := c.runTSC(ctx, root, "--noEmit", "--pretty", "false", "-p", tsconfig)
	if err != nil {
		// tsc exits non-zero whenever it reports diagnostics.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Sprintf("typescript.skipped:%v", err)
		}
	}
	return out, ""
}

// ParseTSCOutput counts error diagnostics per root-relative path.
func ParseTSCOutput(root string, output []byte) map[string]int {
	counts := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := tscDiagnostic.FindSubmatch(bytes.TrimSpace(scanner.Bytes()))
		if m == nil {
			continue
		}
		rel := contract.ToRelativePath(root, filepath.FromSlash(string(m[1])))
		counts[rel]++
	}
	return counts
}

// FindTSConfig returns root/tsconfig.json, or else the shallowest tsconfig.json
// below root. It returns "" when there is none.
func FindTSConfig(root string) string {
	direct := filepath.Join(root, "tsconfig.json")
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	return findShallowest(root, "tsconfig.json")
}

// findShallowest walks root for the matching file with the shortest path.
func findShallowest(root, name string) string {
	best := ""
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == name && (best == "" || len(path) < len(best)) {
			best = path
		}
		return nil
	})
	return best
}

// runTSC runs the TypeScript compiler in dir.
func runTSC(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "tsc", args...)
	cmd.Dir = dir
	return cmd.Output()
}
