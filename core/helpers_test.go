package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// mapExtractor returns canned import sources per path.
type mapExtractor struct {
	imports map[string][]string
	fail    map[string]bool
}

func (m mapExtractor) ExtractImports(_ context.Context, path string, _ []byte) ([]string, error) {
	if m.fail[path] {
		return nil, errors.New("unexpected token")
	}
	return m.imports[path], nil
}

// writeTree creates files under root. Contents are irrelevant to mapExtractor.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("export {};\n"), 0o644))
	}
}
