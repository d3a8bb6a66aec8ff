//go:build !cgo

package analyzers

import (
	"context"

	"github.com/gihwan-dev/codehealth/internal/contract"
)

// TreeSitterAvailable reports whether the source parsers are compiled in.
// Tree-sitter needs cgo.
const TreeSitterAvailable = false

// NewImportExtractor returns nil when the parsers are unavailable.
func NewImportExtractor() contract.ImportExtractor {
	return nil
}

// StructuralCollector is a stub for non-cgo builds.
type StructuralCollector struct{}

// NewStructuralCollector returns the stub structural collector.
func NewStructuralCollector() *StructuralCollector {
	return &StructuralCollector{}
}

// Name implements Collaborator.
func (c *StructuralCollector) Name() string { return "ast" }

// Collect reports the structural metrics as unavailable.
func (c *StructuralCollector) Collect(_ context.Context, _ Request) Result {
	result := newResult()
	result.Unavailable = append(result.Unavailable, "ast.skipped:tree-sitter-unavailable")
	return result
}
