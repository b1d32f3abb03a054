package outwriter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScore() schema.ScoreResult {
	return schema.ScoreResult{
		TotalScore: 64,
		Breakdown: map[schema.BreakdownKey]float64{
			schema.BreakdownCommits:      20,
			schema.BreakdownPRsMerged:    15,
			schema.BreakdownPRsOpened:    5,
			schema.BreakdownIssuesClosed: 4,
			schema.BreakdownReviews:      6,
			schema.BreakdownLines:        8,
		},
		ConsistencyMultiplier: 1.1,
		Stats:                 schema.ProductivityStats{Commits: 40, ActiveDays: 12},
	}
}

func TestWriteScoreResult(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		require.NoError(t, WriteScoreResult(sampleScore(), cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "prs_merged")
		assert.Contains(t, out, "Productivity score: 64/100 (Strong)")
		assert.Contains(t, out, "Consistency multiplier: 1.1 over 12 active days")
		assert.Contains(t, out, "Store backend: sqlite")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := textConfig(t, schema.CSVOut)
		require.NoError(t, WriteScoreResult(sampleScore(), cfg, time.Second))

		records := readCSV(t, cfg)
		require.Len(t, records, 1+len(schema.AllBreakdownKeys)+2)
		assert.Equal(t, []string{"component", "points"}, records[0])
		assert.Equal(t, []string{"commits", "20.0"}, records[1])
		assert.Equal(t, []string{"total_score", "64"}, records[len(records)-1])
	})

	t.Run("json", func(t *testing.T) {
		cfg := textConfig(t, schema.JSONOut)
		require.NoError(t, WriteScoreResult(sampleScore(), cfg, time.Second))

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
		assert.Equal(t, float64(64), got["total_score"])
		assert.Equal(t, "Strong", got["label"])
	})
}

func TestWriteStreakResult(t *testing.T) {
	last := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		info     schema.StreakInfo
		mode     schema.OutputMode
		contains []string
		absent   []string
	}{
		{
			name:     "active streak",
			info:     schema.StreakInfo{Current: 5, Longest: 9, LastCommitDate: &last},
			mode:     schema.TextOut,
			contains: []string{"2024-03-14", "🔥 5 day streak"},
		},
		{
			name:     "no commits",
			info:     schema.StreakInfo{},
			mode:     schema.TextOut,
			contains: []string{"never"},
			absent:   []string{"🔥"},
		},
		{
			name:     "csv",
			info:     schema.StreakInfo{Current: 5, Longest: 9, LastCommitDate: &last},
			mode:     schema.CSVOut,
			contains: []string{"current,longest,last_commit_date\n5,9,2024-03-14\n"},
		},
		{
			name:     "json",
			info:     schema.StreakInfo{Current: 2, Longest: 2},
			mode:     schema.JSONOut,
			contains: []string{`"current": 2`, `"last_commit_date": null`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := textConfig(t, tt.mode)
			require.NoError(t, WriteStreakResult(tt.info, cfg, time.Second))
			out := readOutput(t, cfg)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}
