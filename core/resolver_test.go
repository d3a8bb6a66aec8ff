package core

import (
	"context"
	"errors"
	"testing"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResolveTargets_GitModes(t *testing.T) {
	ctx := context.Background()
	client := &contract.MockGitClient{}
	client.On("ChangedFiles", ctx, "/repo", schema.WorkingMode, "").Return([]string{
		"src/b.ts",
		"src/a.tsx",
		"src/a.tsx",
		"README.md",
		"src/types.d.ts",
		"node_modules/x/index.js",
		"vite.config.ts",
		"src\\win.ts",
	}, nil)

	result := ResolveTargets(ctx, client, "/repo", schema.WorkingMode, "")
	assert.Equal(t, []string{"src/a.tsx", "src/b.ts", "src/win.ts"}, result.Files)
	assert.Empty(t, result.Warnings)
	client.AssertExpectations(t)
}

func TestResolveTargets_FilesMode(t *testing.T) {
	client := &contract.MockGitClient{}
	result := ResolveTargets(context.Background(), client, "/repo", schema.FilesMode, "src/b.ts, ./src/a.ts\n/repo/src/c.js  docs/x.md")
	assert.Equal(t, []string{"src/a.ts", "src/b.ts", "src/c.js"}, result.Files)
	client.AssertNotCalled(t, "ChangedFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveTargets_MissingTarget(t *testing.T) {
	for _, mode := range []schema.TargetMode{schema.BranchMode, schema.RangeMode} {
		t.Run(string(mode), func(t *testing.T) {
			result := ResolveTargets(context.Background(), &contract.MockGitClient{}, "/repo", mode, "  ")
			assert.Empty(t, result.Files)
			assert.Equal(t, []string{"mode=" + string(mode) + " requires --target"}, result.Warnings)
		})
	}
}

func TestResolveTargets_GitFailure(t *testing.T) {
	ctx := context.Background()
	client := &contract.MockGitClient{}
	client.On("ChangedFiles", ctx, "/repo", schema.BranchMode, "main").Return(nil, errors.New("not a git repository"))

	result := ResolveTargets(ctx, client, "/repo", schema.BranchMode, "main")
	assert.Empty(t, result.Files)
	assert.Equal(t, []string{"failed to resolve changed files: not a git repository"}, result.Warnings)
}
