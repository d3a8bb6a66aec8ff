//go:build cgo

package analyzers

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gihwan-dev/codehealth/schema"
	sitter "github.com/smacker/go-tree-sitter"
)

// decisionTypes are the node types that add a path through the code.
var decisionTypes = map[string]struct{}{
	"if_statement":              {},
	"for_statement":             {},
	"for_in_statement":          {},
	"while_statement":           {},
	"do_statement":              {},
	"switch_case":               {},
	"catch_clause":              {},
	"ternary_expression":        {},
	"optional_chain":            {},
}

// StructuralCollector computes AST counts, size and Halstead-based metrics.
type StructuralCollector struct{}

// NewStructuralCollector returns the tree-sitter structural collector.
func NewStructuralCollector() *StructuralCollector {
	return &StructuralCollector{}
}

// Name implements Collaborator.
func (c *StructuralCollector) Name() string { return "ast" }

// Collect implements Collaborator.
func (c *StructuralCollector) Collect(ctx context.Context, req Request) Result {
	result := newResult()
	for _, rel := range req.Files {
		src, err := os.ReadFile(filepath.Join(req.Root, filepath.FromSlash(rel)))
		if err != nil {
			result.Unavailable = append(result.Unavailable, fmt.Sprintf("ast.read-failed:%s", rel))
			continue
		}

		patch, parsed := analyzeSource(ctx, rel, src)
		if !parsed {
			result.Unavailable = append(result.Unavailable, fmt.Sprintf("ast.parse-failed:%s", rel))
		}
		result.ByFile[rel] = patch
	}
	return result
}

// analyzeSource computes the structural metrics of one file. Text-based counts
// are always reported; tree-based metrics only when the file parsed cleanly.
func analyzeSource(ctx context.Context, path string, src []byte) (schema.MetricPatch, bool) {
	text := string(src)
	physical := nonEmptyLines(text)

	var patch schema.MetricPatch
	patch.LocPhysical = schema.Float(float64(physical))
	patch.TSIgnoreCount = schema.Int(strings.Count(text, "@ts-ignore") + strings.Count(text, "@ts-expect-error"))

	tree, err := parseSource(ctx, path, src)
	if err != nil {
		return patch, false
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		return patch, false
	}

	var imports, states, anys, assertions, statements, decisions int
	h := newHalstead()
	walk(root, func(n *sitter.Node) {
		typ := n.Type()
		switch typ {
		case "import_statement":
			imports++
		case "call_expression":
			if isStateHook(n.ChildByFieldName("function"), src) {
				states++
			}
		case "predefined_type":
			if n.Content(src) == "any" {
				anys++
			}
		case "as_expression", "type_assertion":
			assertions++
		case "binary_expression":
			if op := n.ChildByFieldName("operator"); op != nil {
				switch op.Type() {
				case "&&", "||", "??":
					decisions++
				}
			}
		}
		if _, ok := decisionTypes[typ]; ok {
			decisions++
		}
		if n.IsNamed() && (strings.HasSuffix(typ, "_statement") || strings.HasSuffix(typ, "_declaration")) {
			statements++
		}
		if n.ChildCount() == 0 && typ != "comment" {
			h.add(n, src)
		}
	})

	volume := h.volume()
	cyclomatic := float64(decisions + 1)

	patch.ImportCount = schema.Int(imports)
	patch.StateCount = schema.Int(states)
	patch.AnyCount = schema.Int(anys)
	patch.AssertionCount = schema.Int(assertions)
	patch.LocLogical = schema.Float(float64(statements))
	patch.HalsteadVolume = schema.Float(schema.Round2(volume))
	patch.MaintainabilityIndex = schema.Float(schema.Round2(maintainabilityIndex(volume, cyclomatic, physical)))
	patch.CyclomaticApprox = schema.Float(cyclomatic)
	return patch, true
}

// isStateHook matches useState/useReducer called bare or as a member.
func isStateHook(fn *sitter.Node, src []byte) bool {
	if fn == nil {
		return false
	}
	var name string
	switch fn.Type() {
	case "identifier":
		name = fn.Content(src)
	case "member_expression":
		prop := fn.ChildByFieldName("property")
		if prop == nil {
			return false
		}
		name = prop.Content(src)
	default:
		return false
	}
	return name == "useState" || name == "useReducer"
}

// halstead counts operators (anonymous leaf tokens) and operands (named leaf tokens).
type halstead struct {
	operators, operands         int
	uniqueOperators, uniqueOpds map[string]struct{}
}

func newHalstead() *halstead {
	return &halstead{uniqueOperators: map[string]struct{}{}, uniqueOpds: map[string]struct{}{}}
}

func (h *halstead) add(n *sitter.Node, src []byte) {
	if n.IsNamed() {
		h.operands++
		h.uniqueOpds[n.Type()+":"+n.Content(src)] = struct{}{}
		return
	}
	h.operators++
	h.uniqueOperators[n.Type()] = struct{}{}
}

// volume is N * log2(n).
func (h *halstead) volume() float64 {
	length := float64(h.operators + h.operands)
	vocabulary := float64(len(h.uniqueOperators) + len(h.uniqueOpds))
	if vocabulary < 2 {
		return 0
	}
	return length * math.Log2(vocabulary)
}

// maintainabilityIndex is the normalized 0-100 maintainability index.
func maintainabilityIndex(volume, cyclomatic float64, loc int) float64 {
	mi := 171 - 5.2*math.Log(max(volume, 1)) - 0.23*cyclomatic - 16.2*math.Log(max(float64(loc), 1))
	return schema.Clamp(mi*100/171, 0, 100)
}

func nonEmptyLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
