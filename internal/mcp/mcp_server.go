// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the codehealth MCP server without starting it.
// store may be nil when history tracking is disabled.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.HistoryStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Code Health Scorecard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: collect_metrics ---
	s.AddTool(mcp.NewTool("collect_metrics",
		mcp.WithDescription("Collect quantitative code health metrics for the changed TypeScript/JavaScript files of a repository."),
		mcp.WithString("project_root", mcp.Description("Path to the project root (defaults to the configured root).")),
		mcp.WithString("mode", mcp.Description("Target mode. Defaults to 'working'."), mcp.Enum("working", "staged", "branch", "range", "files")),
		mcp.WithString("target", mcp.Description("Base branch, commit range or file list, depending on mode.")),
		mcp.WithNumber("window_days", mcp.Description("Churn window in days.")),
		mcp.WithNumber("closure_limit", mcp.Description("Maximum number of files in the import closure.")),
	), h.handleCollectMetrics)

	// --- 2. Tool: build_scorecard ---
	s.AddTool(mcp.NewTool("build_scorecard",
		mcp.WithDescription("Blend a quantitative metrics document with an optional qualitative review into a graded scorecard."),
		mcp.WithString("quant", mcp.Description("The quantitative metrics document as JSON."), mcp.Required()),
		mcp.WithString("review", mcp.Description("The qualitative review as YAML or JSON.")),
	), h.handleBuildScorecard)

	// --- 3. Tool: select_hotspots ---
	s.AddTool(mcp.NewTool("select_hotspots",
		mcp.WithDescription("Rank the files of a quantitative metrics document and return the share selected for review."),
		mcp.WithString("quant", mcp.Description("The quantitative metrics document as JSON."), mcp.Required()),
		mcp.WithNumber("ratio", mcp.Description("Share of files to select, between 0 and 1. Defaults to the calibrated ratio.")),
	), h.handleSelectHotspots)

	// --- 4. Tool: check_toolchain ---
	s.AddTool(mcp.NewTool("check_toolchain",
		mcp.WithDescription("Report whether the host can run a full analysis."),
	), h.handleCheckToolchain)

	// --- 5. Tool: get_history_status ---
	s.AddTool(mcp.NewTool("get_history_status",
		mcp.WithDescription("Report the state of the scorecard history store."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the codehealth MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.HistoryStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
