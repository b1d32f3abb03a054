// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/devflow/devflow/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// userParam is shared by every tool. It falls back to the configured user.
func userParam() mcp.ToolOption {
	return mcp.WithString("user", mcp.Description("GitHub login to analyze (defaults to the configured user)."))
}

// windowParam overrides the analysis window.
func windowParam() mcp.ToolOption {
	return mcp.WithNumber("window", mcp.Description("Number of days ending today to analyze."))
}

// NewMCPServer initializes and configures the DevFlow MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"DevFlow Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("get_productivity_score",
		mcp.WithDescription("Compute the 0-100 productivity score with its per-component breakdown."),
		userParam(),
		windowParam(),
	), h.handleGetProductivityScore)

	s.AddTool(mcp.NewTool("get_streak",
		mcp.WithDescription("Return the current and longest daily commit streaks."),
		userParam(),
	), h.handleGetStreak)

	s.AddTool(mcp.NewTool("get_burnout_risk",
		mcp.WithDescription("Assess burnout risk from recent working patterns, with recommendations."),
		userParam(),
		windowParam(),
	), h.handleGetBurnoutRisk)

	s.AddTool(mcp.NewTool("reveal_archetype",
		mcp.WithDescription("Classify the developer archetype from the last 14 days and store it in the history."),
		userParam(),
	), h.handleRevealArchetype)

	s.AddTool(mcp.NewTool("get_archetype_history",
		mcp.WithDescription("List every archetype assignment of the user, newest first."),
		userParam(),
	), h.handleGetArchetypeHistory)

	s.AddTool(mcp.NewTool("get_activity_report",
		mcp.WithDescription("Build the full activity report: score, streak, code volume, distributions, heatmap and burnout."),
		userParam(),
		windowParam(),
		mcp.WithNumber("limit", mcp.Description("Limit the number of languages and repositories.")),
		mcp.WithNumber("weeks", mcp.Description("Number of weeks shown in the heatmap.")),
	), h.handleGetActivityReport)

	return s
}

// StartMCPServer starts the DevFlow MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
