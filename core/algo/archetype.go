package algo

import (
	"math"

	"github.com/devflow/devflow/schema"
)

// Archetype classifier constants.
const (
	MinArchetypeRecords = 5
	ArchetypeWindowDays = 14
	fallbackMaxScore    = 20
	maxConfidence       = 0.95
)

// ArchetypeRule awards Points to Archetype when Matches holds for a feature vector.
type ArchetypeRule struct {
	Archetype schema.ArchetypeKey
	Name      string
	Points    int
	Matches   func(f schema.ArchetypeFeatures) bool
}

// commitsPerActiveDay is total commits over days with at least one commit.
func commitsPerActiveDay(f schema.ArchetypeFeatures) float64 {
	return ratio(float64(f.TotalCommits), float64(f.ActiveDays))
}

// ArchetypeRules is the scoring table. Rules are independent and additive.
var ArchetypeRules = []ArchetypeRule{
	{schema.TutorialAddict, "long hours with little output", 40, func(f schema.ArchetypeFeatures) bool {
		return f.AvgCodingHours >= 4 && commitsPerActiveDay(f) < 2
	}},
	{schema.TutorialAddict, "coding without shipping PRs", 25, func(f schema.ArchetypeFeatures) bool {
		return f.TotalPRs == 0 && f.AvgCodingHours >= 2
	}},
	{schema.ChaosCoder, "high commit variance", 35, func(f schema.ArchetypeFeatures) bool {
		return f.CommitVariance > 25
	}},
	{schema.ChaosCoder, "single-day spike", 30, func(f schema.ArchetypeFeatures) bool {
		return f.MaxDailyCommits >= 10 && float64(f.MaxDailyCommits) > 3*f.AvgDailyCommits
	}},
	{schema.BurnoutSprinter, "very long days", 35, func(f schema.ArchetypeFeatures) bool {
		return f.AvgCodingHours > 8
	}},
	{schema.BurnoutSprinter, "long days sustained", 30, func(f schema.ArchetypeFeatures) bool {
		return f.ActiveDays >= 12 && f.AvgCodingHours > 6
	}},
	{schema.SilentBuilder, "low variance", 15, func(f schema.ArchetypeFeatures) bool {
		return f.CommitVariance < 10
	}},
	{schema.SilentBuilder, "many active days", 15, func(f schema.ArchetypeFeatures) bool {
		return f.ActiveDays >= 7
	}},
	{schema.SilentBuilder, "few PRs per commit", 20, func(f schema.ArchetypeFeatures) bool {
		return f.TotalCommits > 0 && f.PRRatio < 0.1
	}},
	{schema.MomentumMachine, "week-long streak", 35, func(f schema.ArchetypeFeatures) bool {
		return f.CurrentStreak >= 7
	}},
	{schema.MomentumMachine, "healthy PR throughput", 25, func(f schema.ArchetypeFeatures) bool {
		return f.TotalPRs >= 5
	}},
	{schema.ConsistentOperator, "very low variance", 30, func(f schema.ArchetypeFeatures) bool {
		return f.CommitVariance < 4 && f.ActiveDays >= 5
	}},
	{schema.ConsistentOperator, "moderate steady volume", 25, func(f schema.ArchetypeFeatures) bool {
		return f.AvgDailyCommits >= 2 && f.AvgDailyCommits <= 8
	}},
	{schema.OvernightArchitect, "mostly late-night commits", 50, func(f schema.ArchetypeFeatures) bool {
		return f.LateNightRatio > 0.5
	}},
	{schema.OvernightArchitect, "many late-night commits", 25, func(f schema.ArchetypeFeatures) bool {
		return f.LateNightRatio > 0.3 && f.LateNightRatio <= 0.5
	}},
	{schema.WeekendWarrior, "mostly weekend commits", 50, func(f schema.ArchetypeFeatures) bool {
		return f.WeekendRatio > 0.5
	}},
	{schema.WeekendWarrior, "many weekend commits", 25, func(f schema.ArchetypeFeatures) bool {
		return f.WeekendRatio > 0.3 && f.WeekendRatio <= 0.5
	}},
}

// BuildArchetypeFeatures derives the feature vector from a window of
// aggregates and the user's current streak.
func BuildArchetypeFeatures(days []schema.DailyAggregate, currentStreak int) schema.ArchetypeFeatures {
	f := schema.ArchetypeFeatures{
		Records:       len(days),
		CurrentStreak: currentStreak,
	}
	daily := make([]float64, len(days))
	var hours float64
	for i, d := range days {
		n := nonNeg(d.TotalCommits)
		daily[i] = float64(n)
		f.TotalCommits += n
		f.TotalPRs += nonNeg(d.PRsOpened)
		if n > 0 {
			f.ActiveDays++
		}
		if d.IsWeekend {
			f.WeekendCommits += n
		} else {
			f.WeekdayCommits += n
		}
		f.LateNightCommits += lateNightCommits(d)
		f.MaxDailyCommits = max(f.MaxDailyCommits, n)
		hours += math.Max(d.Hours(), 0)
	}

	total := float64(f.TotalCommits)
	f.WeekendRatio = ratio(float64(f.WeekendCommits), total)
	f.LateNightRatio = clamp01(ratio(float64(f.LateNightCommits), total))
	f.PRRatio = ratio(float64(f.TotalPRs), total)
	f.AvgDailyCommits = ratio(total, float64(len(days)))
	f.AvgCodingHours = ratio(hours, float64(len(days)))
	f.CommitVariance = populationVariance(daily)
	return f
}

// ScoreArchetypes folds the rule table over a feature vector.
// Every archetype is present in the result, including those with zero points.
func ScoreArchetypes(f schema.ArchetypeFeatures) map[schema.ArchetypeKey]int {
	scores := make(map[schema.ArchetypeKey]int, len(schema.AllArchetypes))
	for _, key := range schema.AllArchetypes {
		scores[key] = 0
	}
	for _, rule := range ArchetypeRules {
		if rule.Matches(f) {
			scores[rule.Archetype] += rule.Points
		}
	}
	return scores
}

// SelectArchetype picks the highest score. Ties go to the archetype declared
// first. A best score of twenty or less falls back to silent_builder.
func SelectArchetype(scores map[schema.ArchetypeKey]int) (winner schema.ArchetypeKey, best int, fallback bool) {
	best = -1
	for _, key := range schema.AllArchetypes {
		if s := scores[key]; s > best {
			best = s
			winner = key
		}
	}
	if best <= fallbackMaxScore {
		return schema.SilentBuilder, max(best, 0), true
	}
	return winner, best, false
}

// Confidence returns min(0.95, score/100).
func Confidence(score int) float64 {
	return math.Min(maxConfidence, float64(max(score, 0))/100)
}

// ClassifyArchetype scores a window of aggregates and selects an archetype.
// With fewer than five records the result is marked insufficient.
func ClassifyArchetype(days []schema.DailyAggregate, currentStreak int) schema.ArchetypeResult {
	if len(days) < MinArchetypeRecords {
		return schema.ArchetypeResult{
			Insufficient:    true,
			DaysUntilReveal: MinArchetypeRecords - len(days),
			Features:        BuildArchetypeFeatures(days, currentStreak),
		}
	}

	features := BuildArchetypeFeatures(days, currentStreak)
	scores := ScoreArchetypes(features)
	winner, best, fallback := SelectArchetype(scores)
	return schema.ArchetypeResult{
		Archetype:       winner,
		ConfidenceScore: Confidence(best),
		WinningScore:    best,
		Fallback:        fallback,
		Scores:          scores,
		Features:        features,
	}
}
