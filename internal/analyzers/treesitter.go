//go:build cgo

package analyzers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gihwan-dev/codehealth/internal/contract"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TreeSitterAvailable reports whether the source parsers are compiled in.
const TreeSitterAvailable = true

// languageFor picks the grammar for a source file by extension.
func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		// .js, .jsx, .mjs, .cjs; the JavaScript grammar covers JSX.
		return javascript.GetLanguage()
	}
}

// parseSource parses src with the grammar for path. The caller closes the tree.
func parseSource(ctx context.Context, path string, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return tree, nil
}

// walk visits node and all of its descendants depth-first.
func walk(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), visit)
	}
}

// stringLiteral returns the unquoted value of a string node.
func stringLiteral(node *sitter.Node, src []byte) (string, bool) {
	if node == nil || node.Type() != "string" {
		return "", false
	}
	raw := node.Content(src)
	if len(raw) < 2 {
		return "", false
	}
	return raw[1 : len(raw)-1], true
}

// treeSitterExtractor finds the import sources of a file.
type treeSitterExtractor struct{}

var _ contract.ImportExtractor = &treeSitterExtractor{} // Compile-time check

// NewImportExtractor returns the tree-sitter import extractor.
func NewImportExtractor() contract.ImportExtractor {
	return &treeSitterExtractor{}
}

// ExtractImports returns static imports, re-exports, dynamic import() and
// require() sources, in source order.
func (e *treeSitterExtractor) ExtractImports(ctx context.Context, path string, src []byte) ([]string, error) {
	tree, err := parseSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return importSources(tree.RootNode(), src), nil
}

// importSources collects the module specifiers referenced under root.
func importSources(root *sitter.Node, src []byte) []string {
	var sources []string
	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement", "export_statement":
			if s, ok := stringLiteral(n.ChildByFieldName("source"), src); ok {
				sources = append(sources, s)
			}
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return
			}
			if fn.Type() != "import" && !(fn.Type() == "identifier" && fn.Content(src) == "require") {
				return
			}
			args := n.ChildByFieldName("arguments")
			if args == nil || args.NamedChildCount() == 0 {
				return
			}
			if s, ok := stringLiteral(args.NamedChild(0), src); ok {
				sources = append(sources, s)
			}
		}
	})
	return sources
}
