package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/iocache"
	mcp_internal "github.com/gihwan-dev/codehealth/internal/mcp"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const quantDoc = `{
  "files": [
    {"path": "src/a.ts", "metrics": {"cyclomatic": 10}},
    {"path": "src/b.ts", "metrics": {}, "hotspotScore": 70},
    {"path": "src/c.ts", "metrics": {}}
  ],
  "summary": {"quantitativeScore": 80}
}`

func baseConfig() *contract.Config {
	return &contract.Config{
		ProjectRoot: ".",
		Mode:        schema.WorkingMode,
		Profile:     schema.BalancedProfile,
		Calibration: schema.DefaultCalibration(),
	}
}

func call(t *testing.T, store contract.HistoryStore, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), store)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("build_scorecard missing quant", func(t *testing.T) {
		res := call(t, nil, "build_scorecard", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text(res), "quant is required")
	})

	t.Run("build_scorecard malformed quant", func(t *testing.T) {
		res := call(t, nil, "build_scorecard", map[string]any{"quant": "{not json"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid quant document")
	})

	t.Run("build_scorecard malformed review", func(t *testing.T) {
		res := call(t, nil, "build_scorecard", map[string]any{"quant": quantDoc, "review": "evaluations: [unclosed"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid review document")
	})

	t.Run("select_hotspots invalid ratio", func(t *testing.T) {
		res := call(t, nil, "select_hotspots", map[string]any{"quant": quantDoc, "ratio": 1.5})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "ratio must be in (0, 1]")
	})

	t.Run("collect_metrics invalid mode", func(t *testing.T) {
		res := call(t, nil, "collect_metrics", map[string]any{"mode": "everything"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), `invalid mode "everything"`)
	})

	t.Run("collect_metrics missing project_root", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "does-not-exist")
		res := call(t, nil, "collect_metrics", map[string]any{"project_root": missing})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid project_root")
	})

	t.Run("collect_metrics project_root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.ts")
		require.NoError(t, os.WriteFile(file, []byte("export {};\n"), 0o644))
		res := call(t, nil, "collect_metrics", map[string]any{"project_root": file})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "is not a directory")
	})

	t.Run("get_history_status disabled", func(t *testing.T) {
		res := call(t, nil, "get_history_status", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "history tracking is disabled")
	})
}

func TestMCPServerHandlers_BuildScorecard(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("RecordScorecard", mock.Anything, mock.Anything).Return(nil)

	res := call(t, store, "build_scorecard", map[string]any{"quant": quantDoc})
	require.False(t, res.IsError, text(res))

	var result schema.ScorecardResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.Equal(t, 80.0, result.Final.Score)
	assert.Equal(t, "B", result.Final.Grade)
	assert.Nil(t, result.QualitativeOverlay.Score)
	store.AssertExpectations(t)
}

func TestMCPServerHandlers_SelectHotspots(t *testing.T) {
	res := call(t, nil, "select_hotspots", map[string]any{"quant": quantDoc, "ratio": 0.5})
	require.False(t, res.IsError, text(res))

	var selection schema.HotspotSelection
	require.NoError(t, json.Unmarshal([]byte(text(res)), &selection))
	assert.Equal(t, 3, selection.TotalFileCount)
	assert.Equal(t, 2, selection.EligibleFileCount)
	assert.Equal(t, 50.0, selection.TopPercent)
	assert.Equal(t, []schema.HotspotEntry{{Path: "src/b.ts", Score: 70}, {Path: "src/a.ts", Score: 9}}, selection.Files)
}

func TestMCPServerHandlers_HistoryStatus(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true, TotalRuns: 3}, nil)

		res := call(t, store, "get_history_status", nil)
		require.False(t, res.IsError)
		assert.Contains(t, text(res), `"total_runs": 3`)
	})

	t.Run("failure", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("connection refused"))

		res := call(t, store, "get_history_status", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "connection refused")
	})
}

func TestMCPServer_Tools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	for _, name := range []string{"collect_metrics", "build_scorecard", "select_hotspots", "check_toolchain", "get_history_status"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}
