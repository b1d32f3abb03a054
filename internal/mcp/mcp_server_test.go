package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/datastore"
	mcp_internal "github.com/devflow/devflow/internal/mcp"
	"github.com/devflow/devflow/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

func baseConfig() *contract.Config {
	return &contract.Config{
		User:         "octocat",
		Location:     time.UTC,
		Today:        today,
		WindowDays:   30,
		ResultLimit:  10,
		HeatmapWeeks: 12,
		Precision:    1,
		Output:       schema.TextOut,
		StoreBackend: schema.SQLiteBackend,
	}
}

// callTool invokes a registered tool the way an MCP client would.
func callTool(t *testing.T, cfg *contract.Config, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "tool logic failures are reported in the result, not as errors")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func storesWith(days []schema.DailyAggregate) (*datastore.MockStoreManager, *datastore.MockActivityStore) {
	activity := &datastore.MockActivityStore{}
	activity.On("GetDailyAggregates", mock.Anything, mock.Anything, mock.Anything).Return(days, nil)
	activity.On("UpsertUser", mock.Anything).Return(nil).Maybe()
	mgr := &datastore.MockStoreManager{}
	mgr.On("GetActivityStore").Return(activity)
	mgr.On("GetInsightStore").Return(&datastore.MockInsightStore{}).Maybe()
	return mgr, activity
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	for _, name := range []string{
		"get_productivity_score",
		"get_streak",
		"get_burnout_risk",
		"reveal_archetype",
		"get_archetype_history",
		"get_activity_report",
	} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		tool        string
		cfg         func() *contract.Config
		args        map[string]any
		errContains string
	}{
		{
			name:        "invalid login",
			tool:        "get_streak",
			cfg:         baseConfig,
			args:        map[string]any{"user": "not a login"},
			errContains: "invalid user login",
		},
		{
			name:        "window too large",
			tool:        "get_productivity_score",
			cfg:         baseConfig,
			args:        map[string]any{"window": 9999.0},
			errContains: "window must be",
		},
		{
			name:        "negative weeks",
			tool:        "get_activity_report",
			cfg:         baseConfig,
			args:        map[string]any{"weeks": -2.0},
			errContains: "weeks must be",
		},
		{
			name: "no user anywhere",
			tool: "get_burnout_risk",
			cfg: func() *contract.Config {
				cfg := baseConfig()
				cfg.User = ""
				return cfg
			},
			args:        map[string]any{},
			errContains: "user login is required",
		},
		{
			name:        "store not initialized",
			tool:        "reveal_archetype",
			cfg:         baseConfig,
			args:        map[string]any{},
			errContains: "archetype reveal failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.cfg(), nil, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.errContains)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	days := []schema.DailyAggregate{
		{UserLogin: "hubot", Date: today.AddDate(0, 0, -1), TotalCommits: 3, CommitsByHour: map[int]int{9: 3}},
		{UserLogin: "hubot", Date: today, TotalCommits: 2, CommitsByHour: map[int]int{14: 2}},
	}

	t.Run("streak for overridden user", func(t *testing.T) {
		mgr, activity := storesWith(days)
		res := callTool(t, baseConfig(), mgr, "get_streak", map[string]any{"user": "hubot"})
		require.False(t, res.IsError, resultText(res))

		var info schema.StreakInfo
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &info))
		assert.Equal(t, 2, info.Current)
		activity.AssertCalled(t, "GetDailyAggregates", "hubot", time.Time{}, today)
	})

	t.Run("score honors window", func(t *testing.T) {
		mgr, activity := storesWith(days)
		res := callTool(t, baseConfig(), mgr, "get_productivity_score", map[string]any{"window": 7.0})
		require.False(t, res.IsError, resultText(res))

		var score schema.ScoreResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &score))
		assert.Equal(t, 5, score.Stats.Commits)
		activity.AssertCalled(t, "GetDailyAggregates", "octocat", today.AddDate(0, 0, -6), today)
	})

	t.Run("burnout without enough data", func(t *testing.T) {
		mgr, _ := storesWith(days)
		res := callTool(t, baseConfig(), mgr, "get_burnout_risk", nil)
		require.False(t, res.IsError, resultText(res))

		var a schema.BurnoutAssessment
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &a))
		assert.False(t, a.HasEnoughData)
		assert.Equal(t, 2, a.DaysAnalyzed)
	})

	t.Run("reveal stays locked below five days", func(t *testing.T) {
		mgr, _ := storesWith(days)
		res := callTool(t, baseConfig(), mgr, "reveal_archetype", nil)
		require.False(t, res.IsError, resultText(res))

		var reveal schema.RevealResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &reveal))
		assert.True(t, reveal.Insufficient)
		assert.Equal(t, 3, reveal.DaysUntilReveal)
		assert.Nil(t, reveal.Assignment)
	})

	t.Run("history error surfaces", func(t *testing.T) {
		insight := &datastore.MockInsightStore{}
		insight.On("ListArchetypeHistory", "octocat").Return(nil, errors.New("connection reset"))
		mgr := &datastore.MockStoreManager{}
		mgr.On("GetInsightStore").Return(insight)
		mgr.On("GetActivityStore").Return(&datastore.MockActivityStore{}).Maybe()

		res := callTool(t, baseConfig(), mgr, "get_archetype_history", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "connection reset")
	})

	t.Run("report", func(t *testing.T) {
		mgr, _ := storesWith(days)
		res := callTool(t, baseConfig(), mgr, "get_activity_report", map[string]any{"weeks": 1.0, "limit": 3.0})
		require.False(t, res.IsError, resultText(res))

		var report schema.ActivityReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.Equal(t, "octocat", report.UserLogin)
		assert.Len(t, report.Heatmap, 7)
		assert.Equal(t, 5, report.Score.Stats.Commits)
	})
}
