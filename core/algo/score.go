package algo

import (
	"math"

	"github.com/devflow/devflow/schema"
)

// Productivity score weights and scaling.
const (
	commitWeight      = 10.0
	prMergedWeight    = 25.0
	prOpenedWeight    = 10.0
	issueClosedWeight = 15.0
	reviewWeight      = 20.0
	linesWeight       = 5.0

	consistencyDays = 7.0
	maxMultiplier   = 1.5
	scoreDivisor    = 50.0
	maxScore        = 100
)

// ConsistencyMultiplier returns min(activeDays/7, 1.5), treating fewer than
// one active day as one.
func ConsistencyMultiplier(activeDays int) float64 {
	if activeDays < 1 {
		activeDays = 1
	}
	return math.Min(float64(activeDays)/consistencyDays, maxMultiplier)
}

// CalculateProductivityScore returns the 0-100 productivity score for stats.
func CalculateProductivityScore(stats schema.ProductivityStats) int {
	return ScoreProductivity(stats).TotalScore
}

// ScoreProductivity computes the productivity score along with the weighted
// contribution of each component after the consistency multiplier.
func ScoreProductivity(stats schema.ProductivityStats) schema.ScoreResult {
	lines := float64(nonNeg(stats.LinesAdded)) + float64(nonNeg(stats.LinesDeleted))
	mult := ConsistencyMultiplier(stats.ActiveDays)

	components := []struct {
		key   schema.BreakdownKey
		value float64
	}{
		{schema.BreakdownCommits, commitWeight * float64(nonNeg(stats.Commits))},
		{schema.BreakdownPRsMerged, prMergedWeight * float64(nonNeg(stats.PRsMerged))},
		{schema.BreakdownPRsOpened, prOpenedWeight * float64(nonNeg(stats.PRsOpened))},
		{schema.BreakdownIssuesClosed, issueClosedWeight * float64(nonNeg(stats.IssuesClosed))},
		{schema.BreakdownReviews, reviewWeight * float64(nonNeg(stats.Reviews))},
		{schema.BreakdownLines, linesWeight * math.Log10(lines+1)},
	}

	var raw float64
	breakdown := make(map[schema.BreakdownKey]float64, len(components))
	for _, c := range components {
		raw += c.value
		breakdown[c.key] = c.value * mult / scoreDivisor
	}
	raw *= mult

	scaled := math.Round(raw / scoreDivisor)
	score := maxScore
	if scaled < maxScore {
		score = int(max(scaled, 0))
	}

	return schema.ScoreResult{
		TotalScore:            score,
		Breakdown:             breakdown,
		ConsistencyMultiplier: mult,
		Stats:                 stats,
	}
}

// StatsFromAggregates sums a window of aggregates into score inputs.
// ActiveDays counts the days with at least one commit.
func StatsFromAggregates(days []schema.DailyAggregate) schema.ProductivityStats {
	var s schema.ProductivityStats
	for _, d := range days {
		s.Commits += nonNeg(d.TotalCommits)
		s.PRsMerged += nonNeg(d.PRsMerged)
		s.PRsOpened += nonNeg(d.PRsOpened)
		s.IssuesClosed += nonNeg(d.IssuesClosed)
		s.Reviews += nonNeg(d.CodeReviews)
		s.LinesAdded += nonNeg(d.LinesAdded)
		s.LinesDeleted += nonNeg(d.LinesDeleted)
	}
	s.ActiveDays = len(activeDates(days))
	return s
}

// DailyProductivityScore scores a single day, as done once at ingest.
func DailyProductivityScore(d schema.DailyAggregate) int {
	return CalculateProductivityScore(schema.ProductivityStats{
		Commits:      d.TotalCommits,
		PRsMerged:    d.PRsMerged,
		PRsOpened:    d.PRsOpened,
		IssuesClosed: d.IssuesClosed,
		Reviews:      d.CodeReviews,
		LinesAdded:   d.LinesAdded,
		LinesDeleted: d.LinesDeleted,
		ActiveDays:   1,
	})
}
