package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gihwan-dev/codehealth/core"
	"github.com/gihwan-dev/codehealth/internal/analyzers"
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.HistoryStore
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleCollectMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("project_root", ""); p != "" {
		root, err := contract.ResolveProjectRoot(p)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid project_root: %v", err)), nil
		}
		cfg.ProjectRoot = root
	}
	if m := request.GetString("mode", ""); m != "" {
		cfg.Mode = schema.TargetMode(m)
	}
	if t := request.GetString("target", ""); t != "" {
		cfg.Target = t
	}
	if d := request.GetInt("window_days", 0); d > 0 {
		cfg.WindowDays = d
	}
	if l := request.GetInt("closure_limit", 0); l > 0 {
		cfg.ClosureLimit = l
	}

	if _, ok := schema.ValidTargetModes[cfg.Mode]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", cfg.Mode)), nil
	}

	doc, err := core.CollectQuantDocument(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("collect failed: %v", err)), nil
	}
	return jsonResult(doc), nil
}

func (h *toolHandler) handleBuildScorecard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quantStr := request.GetString("quant", "")
	if quantStr == "" {
		return mcp.NewToolResultError("quant is required"), nil
	}
	quant, err := core.ParseQuantDocument([]byte(quantStr))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid quant document: %v", err)), nil
	}

	var review *schema.ReviewDocument
	if reviewStr := request.GetString("review", ""); reviewStr != "" {
		review, err = core.ParseReviewDocument([]byte(reviewStr))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid review document: %v", err)), nil
		}
	}

	cfg := h.baseCfg.Clone()
	result := core.BuildScorecard(ctx, cfg, quant, review)
	core.RecordHistory(h.store, result, cfg.Calibration.Hotspot)
	return jsonResult(result), nil
}

func (h *toolHandler) handleSelectHotspots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quantStr := request.GetString("quant", "")
	if quantStr == "" {
		return mcp.NewToolResultError("quant is required"), nil
	}
	quant, err := core.ParseQuantDocument([]byte(quantStr))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid quant document: %v", err)), nil
	}

	cal := h.baseCfg.Calibration.Hotspot
	ratio := request.GetFloat("ratio", cal.Ratio)
	if ratio <= 0 || ratio > 1 {
		return mcp.NewToolResultError(fmt.Sprintf("ratio must be in (0, 1], got %v", ratio)), nil
	}

	entries := core.HotspotEntries(quant.Files, cal)
	return jsonResult(schema.HotspotSelection{
		TotalFileCount:    len(entries),
		EligibleFileCount: core.HotspotCount(len(entries), ratio),
		TopPercent:        schema.Round2(ratio * 100),
		Files:             core.SelectHotspots(entries, ratio),
	}), nil
}

func (h *toolHandler) handleCheckToolchain(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(analyzers.NewLocalToolchain().Check(ctx)), nil
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("history tracking is disabled; set --history-backend"), nil
	}
	status, err := h.store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get history status: %v", err)), nil
	}
	return jsonResult(status), nil
}
