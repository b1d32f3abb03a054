package outwriter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReveal() schema.RevealResult {
	assigned := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	prevAssigned := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return schema.RevealResult{
		ArchetypeResult: schema.ArchetypeResult{
			Archetype:       schema.WeekendWarrior,
			ConfidenceScore: 0.75,
			WinningScore:    75,
			Scores: map[schema.ArchetypeKey]int{
				schema.WeekendWarrior:  75,
				schema.MomentumMachine: 35,
				schema.SilentBuilder:   35,
			},
			Features: schema.ArchetypeFeatures{Records: 10, ActiveDays: 8, TotalCommits: 30, WeekendRatio: 0.7},
		},
		Assignment: &schema.ArchetypeAssignment{ID: "b", ArchetypeKey: schema.WeekendWarrior, AssignedAt: assigned},
		Superseded: &schema.ArchetypeAssignment{ID: "a", ArchetypeKey: schema.ChaosCoder, AssignedAt: prevAssigned, ValidUntil: &assigned},
	}
}

func TestRankArchetypes(t *testing.T) {
	ranked := rankArchetypes(sampleReveal().Scores)
	require.Len(t, ranked, len(schema.AllArchetypes))
	assert.Equal(t, schema.WeekendWarrior, ranked[0].Key)
	// Equal scores keep declaration order.
	assert.Equal(t, schema.SilentBuilder, ranked[1].Key)
	assert.Equal(t, schema.MomentumMachine, ranked[2].Key)
	assert.Equal(t, schema.TutorialAddict, ranked[3].Key)
}

func TestWriteRevealResult(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		require.NoError(t, WriteRevealResult(sampleReveal(), cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "🧬 Archetype: Weekend Warrior (confidence 0.8)")
		assert.Contains(t, out, "Silent Builder")
		assert.NotContains(t, out, "Tutorial Addict")
		assert.Contains(t, out, "Previously: Chaos Coder (since 2024-03-01)")
	})

	t.Run("fallback", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		reveal := schema.RevealResult{ArchetypeResult: schema.ArchetypeResult{
			Archetype: schema.SilentBuilder, Fallback: true, Scores: map[schema.ArchetypeKey]int{},
		}}
		require.NoError(t, WriteRevealResult(reveal, cfg, time.Second))
		assert.Contains(t, readOutput(t, cfg), "default was assigned")
	})

	t.Run("locked", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		reveal := schema.RevealResult{ArchetypeResult: schema.ArchetypeResult{Insufficient: true, DaysUntilReveal: 3}}
		require.NoError(t, WriteRevealResult(reveal, cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "🔒 Archetype locked: 3 more day(s)")
		assert.NotContains(t, out, "🧬")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := textConfig(t, schema.CSVOut)
		require.NoError(t, WriteRevealResult(sampleReveal(), cfg, time.Second))

		records := readCSV(t, cfg)
		require.Len(t, records, 1+len(schema.AllArchetypes))
		assert.Equal(t, []string{"1", "weekend_warrior", "Weekend Warrior", "75", "true"}, records[1])
		assert.Equal(t, "false", records[2][4])
	})

	t.Run("csv locked", func(t *testing.T) {
		cfg := textConfig(t, schema.CSVOut)
		reveal := schema.RevealResult{ArchetypeResult: schema.ArchetypeResult{Insufficient: true, DaysUntilReveal: 2}}
		require.NoError(t, WriteRevealResult(reveal, cfg, time.Second))
		assert.Len(t, readCSV(t, cfg), 1)
	})

	t.Run("json", func(t *testing.T) {
		cfg := textConfig(t, schema.JSONOut)
		require.NoError(t, WriteRevealResult(sampleReveal(), cfg, time.Second))

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
		assert.Equal(t, "weekend_warrior", got["archetype"])
		assert.Equal(t, "Weekend Warrior", got["title"])
		assert.Contains(t, got, "superseded")
	})
}

func TestWriteArchetypeHistory(t *testing.T) {
	reveal := sampleReveal()
	history := []schema.ArchetypeAssignment{*reveal.Assignment, *reveal.Superseded}

	t.Run("text", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		require.NoError(t, WriteArchetypeHistory(history, cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "current")
		assert.Contains(t, out, "2024-03-14 09:30:00")
		assert.Contains(t, out, "Showing 2 archetype assignment(s) for octocat")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := textConfig(t, schema.CSVOut)
		require.NoError(t, WriteArchetypeHistory(history, cfg, time.Second))

		records := readCSV(t, cfg)
		require.Len(t, records, 3)
		assert.Equal(t, "", records[1][5])
		assert.Equal(t, "2024-03-14T09:30:00Z", records[2][5])
	})

	t.Run("json empty", func(t *testing.T) {
		cfg := textConfig(t, schema.JSONOut)
		require.NoError(t, WriteArchetypeHistory(nil, cfg, time.Second))
		assert.Equal(t, "[]\n", readOutput(t, cfg))
	})
}
