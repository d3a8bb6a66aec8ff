package core

import (
	"slices"

	"github.com/gihwan-dev/codehealth/schema"
)

// MergeFileMetrics builds one record per file from the collaborator outputs.
// Every target starts with all metrics absent; each source then overwrites only
// the fields it reports, in argument order. Files reported by a source but not in
// targets are added. A structural cyclomatic estimate fills Cyclomatic only when
// no source reported an exact value.
func MergeFileMetrics(targets []string, sources ...map[string]schema.MetricPatch) map[string]schema.FileMetrics {
	merged := make(map[string]schema.FileMetrics, len(targets))
	approx := make(map[string]float64)

	for _, path := range targets {
		merged[path] = schema.FileMetrics{}
	}

	for _, source := range sources {
		for path, patch := range source {
			m := merged[path]
			patch.Apply(&m)
			merged[path] = m
			if patch.CyclomaticApprox != nil {
				approx[path] = *patch.CyclomaticApprox
			}
		}
	}

	for path, estimate := range approx {
		m := merged[path]
		if m.Cyclomatic == nil {
			m.Cyclomatic = schema.Float(estimate)
			merged[path] = m
		}
	}
	return merged
}

// SortedPaths returns the keys of merged in ascending order.
func SortedPaths(merged map[string]schema.FileMetrics) []string {
	paths := make([]string, 0, len(merged))
	for path := range merged {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
