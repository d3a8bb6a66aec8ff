package analyzers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// DependencyCollector measures coupling inside the analyzed file set.
type DependencyCollector struct {
	extractor contract.ImportExtractor
}

// NewDependencyCollector returns a collector using extractor. A nil extractor
// makes the collector report itself unavailable.
func NewDependencyCollector(extractor contract.ImportExtractor) *DependencyCollector {
	return &DependencyCollector{extractor: extractor}
}

// Name implements Collaborator.
func (c *DependencyCollector) Name() string { return "dependency" }

// Collect implements Collaborator.
func (c *DependencyCollector) Collect(ctx context.Context, req Request) Result {
	result := newResult()
	if len(req.Files) == 0 {
		return result
	}
	if c.extractor == nil {
		result.Unavailable = append(result.Unavailable, "dependency.skipped:missing-ast-toolchain")
		return result
	}

	graph, warnings := BuildImportGraph(ctx, req.Root, req.Files, c.extractor)
	result.Unavailable = append(result.Unavailable, warnings...)

	fanIn := make(map[string]int, len(req.Files))
	for _, deps := range graph {
		for _, dep := range deps {
			fanIn[dep]++
		}
	}
	circular := CircularFiles(graph)

	for _, rel := range req.Files {
		out := len(graph[rel])
		in := fanIn[rel]
		instability := 0.0
		if in+out > 0 {
			instability = float64(out) / float64(in+out)
		}
		_, isCircular := circular[rel]
		result.ByFile[rel] = schema.MetricPatch{FileMetrics: schema.FileMetrics{
			FanIn:       schema.Int(in),
			FanOut:      schema.Int(out),
			Instability: schema.Float(instability),
			Circular:    schema.Bool(isCircular),
		}}
	}
	return result
}

// BuildImportGraph maps each file to the distinct in-set files it imports, sorted.
// Files that cannot be read or parsed have no edges and produce a warning.
func BuildImportGraph(ctx context.Context, root string, files []string, extractor contract.ImportExtractor) (map[string][]string, []string) {
	inSet := targetSet(files)
	graph := make(map[string][]string, len(files))
	var warnings []string

	for _, rel := range files {
		if ctx.Err() != nil {
			break
		}
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dependency.read-failed:%s", rel))
			continue
		}
		sources, err := extractor.ExtractImports(ctx, rel, src)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dependency.parse-failed:%s", rel))
			continue
		}

		seen := make(map[string]struct{})
		for _, source := range sources {
			dep, ok := contract.ResolveImportPath(root, rel, source)
			if !ok {
				continue
			}
			if _, ok := inSet[dep]; !ok {
				continue
			}
			seen[dep] = struct{}{}
		}
		deps := make([]string, 0, len(seen))
		for dep := range seen {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		graph[rel] = deps
	}
	return graph, warnings
}

// CircularFiles returns the files that sit on an import cycle: members of a
// strongly connected component larger than one, or files importing themselves.
func CircularFiles(graph map[string][]string) map[string]struct{} {
	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	t := &tarjan{
		graph:   graph,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
		result:  make(map[string]struct{}),
	}
	for _, node := range nodes {
		if _, visited := t.index[node]; !visited {
			t.connect(node)
		}
	}
	return t.result
}

// tarjan holds the state of Tarjan's strongly connected components algorithm.
type tarjan struct {
	graph   map[string][]string
	counter int
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	result  map[string]struct{}
}

func (t *tarjan) connect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if w == v {
			t.result[v] = struct{}{}
			continue
		}
		if _, visited := t.index[w]; !visited {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var component []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	if len(component) > 1 {
		for _, w := range component {
			t.result[w] = struct{}{}
		}
	}
}
