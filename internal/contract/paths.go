package contract

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// SourceExtensions are the JavaScript/TypeScript extensions eligible for analysis,
// in import-resolution order.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// excludedFragments disqualify a path when it contains any of them.
var excludedFragments = []string{
	"node_modules/",
	".d.ts",
	".stories.tsx",
	".stories.ts",
	".stories.jsx",
	".stories.js",
	"dist/",
	"build/",
	".next/",
	"coverage/",
}

// excludedSuffixes disqualify a path when it ends with any of them.
var excludedSuffixes = []string{".config.ts", ".config.js", ".config.mjs", ".config.cjs"}

var targetSeparator = regexp.MustCompile(`[\s,]+`)

// NormalizeSlashes converts backslashes to forward slashes.
func NormalizeSlashes(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// IsSupportedSourceFile reports whether the path has a JS/TS extension.
func IsSupportedSourceFile(path string) bool {
	normalized := NormalizeSlashes(path)
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(normalized, ext) {
			return true
		}
	}
	return false
}

// IsExcludedPath reports whether the path is generated, vendored, a story,
// a declaration file or a tool config.
func IsExcludedPath(path string) bool {
	normalized := NormalizeSlashes(path)
	for _, fragment := range excludedFragments {
		if strings.Contains(normalized, fragment) {
			return true
		}
	}
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			return true
		}
	}
	return false
}

// IsCandidateFile reports whether the path is eligible for analysis.
func IsCandidateFile(path string) bool {
	return IsSupportedSourceFile(path) && !IsExcludedPath(path)
}

// DedupeSorted returns the distinct values in ascending order.
func DedupeSorted(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// SplitTargetFiles splits an explicit file list on whitespace and commas.
func SplitTargetFiles(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var files []string
	for _, item := range targetSeparator.Split(raw, -1) {
		if item = strings.TrimSpace(item); item != "" {
			files = append(files, item)
		}
	}
	return files
}

// ToRelativePath returns the root-relative, slash-normalized form of path.
func ToRelativePath(root, path string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, path)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return NormalizeSlashes(path)
	}
	return NormalizeSlashes(rel)
}

// ResolveImportPath maps a relative import source to the root-relative path of an
// existing file. Only sources beginning with '.' are resolved. The candidates are
// the base path, the base path with each source extension, then base/index with
// each extension; the first regular file that stays inside the root and passes
// the candidate policy wins.
func ResolveImportPath(root, importer, source string) (string, bool) {
	if !strings.HasPrefix(source, ".") {
		return "", false
	}

	importerDir := filepath.Dir(filepath.Join(root, filepath.FromSlash(importer)))
	base := filepath.Join(importerDir, filepath.FromSlash(source))

	candidates := make([]string, 0, 1+2*len(SourceExtensions))
	candidates = append(candidates, base)
	for _, ext := range SourceExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range SourceExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		rel, err := filepath.Rel(root, candidate)
		if err != nil {
			continue
		}
		rel = NormalizeSlashes(rel)
		if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if !IsCandidateFile(rel) {
			continue
		}
		if info, err := os.Stat(candidate); err != nil || !info.Mode().IsRegular() {
			continue
		}
		return rel, true
	}
	return "", false
}
