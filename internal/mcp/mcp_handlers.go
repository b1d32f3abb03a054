package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devflow/devflow/core"
	"github.com/devflow/devflow/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the request's overrides.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateOverrides(cfg,
		request.GetString("user", ""),
		request.GetInt("window", 0),
		request.GetInt("limit", 0),
		request.GetInt("weeks", 0),
	)
	return cfg, err
}

// run validates the request, computes a result and returns it as indented JSON.
func run[T any](ctx context.Context, h *toolHandler, request mcp.CallToolRequest, what string,
	compute func(context.Context, *contract.Config, contract.StoreManager) (T, error),
) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := compute(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", what, err)), nil
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode %s: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetProductivityScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "productivity score", core.GetScoreResult)
}

func (h *toolHandler) handleGetStreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "streak", core.GetStreakResult)
}

func (h *toolHandler) handleGetBurnoutRisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "burnout assessment", core.GetBurnoutResult)
}

func (h *toolHandler) handleRevealArchetype(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "archetype reveal", core.RevealArchetype)
}

func (h *toolHandler) handleGetArchetypeHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "archetype history", core.GetArchetypeHistory)
}

func (h *toolHandler) handleGetActivityReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return run(ctx, h, request, "activity report", core.GetActivityReport)
}
