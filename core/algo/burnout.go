package algo

import (
	"math"
	"time"

	"github.com/devflow/devflow/schema"
)

// Burnout model constants.
const (
	MinBurnoutRecords    = 7
	minDeclineRecords    = 14
	longHoursThreshold   = 10.0
	noBreaksRunDays      = 14.0
	inconsistencyStdDev  = 30.0
	notEnoughDataMessage = "not enough data"
)

// recommendationRule fires a recommendation when its factor exceeds threshold.
type recommendationRule struct {
	factor    schema.FactorKey
	threshold float64
	priority  schema.Priority
	message   string
}

// recommendationRules are checked in order; every matching rule fires.
var recommendationRules = []recommendationRule{
	{schema.FactorLongHours, 0.5, schema.PriorityHigh, "Reduce daily coding hours: most of your days run past 10 hours."},
	{schema.FactorWeekendWork, 0.5, schema.PriorityMedium, "Protect your weekends: you worked on most of them."},
	{schema.FactorLateNight, 0.3, schema.PriorityHigh, "Move work earlier in the day: many commits land late at night."},
	{schema.FactorNoBreaks, 0.7, schema.PriorityHigh, "Take a full day off: you have coded many days in a row."},
	{schema.FactorProductivityDecline, 0.3, schema.PriorityMedium, "Output is falling off: plan a lighter week to recover."},
	{schema.FactorInconsistency, 0.5, schema.PriorityLow, "Aim for a steadier rhythm: daily output swings widely."},
}

// AssessBurnout runs the burnout risk model over a window of aggregates.
// Fewer than seven records yields a zero, low-risk "not enough data" result.
func AssessBurnout(days []schema.DailyAggregate) schema.BurnoutAssessment {
	if len(days) < MinBurnoutRecords {
		return schema.BurnoutAssessment{
			RiskScore:       0,
			RiskLevel:       schema.RiskLow,
			Recommendations: []schema.Recommendation{},
			HasEnoughData:   false,
			Message:         notEnoughDataMessage,
			DaysAnalyzed:    len(days),
		}
	}

	sorted := sortedByDate(days)
	factors := schema.BurnoutFactors{
		LongHours:           LongHoursFactor(sorted),
		WeekendWork:         WeekendFactor(sorted),
		LateNight:           LateNightFactor(sorted),
		NoBreaks:            NoBreaksFactor(sorted),
		ProductivityDecline: ProductivityDeclineFactor(sorted),
		Inconsistency:       InconsistencyFactor(sorted),
	}

	score := RiskScore(factors)
	return schema.BurnoutAssessment{
		RiskScore:       score,
		RiskLevel:       RiskLevelFor(score),
		Factors:         factors,
		Recommendations: Recommendations(factors),
		HasEnoughData:   true,
		DaysAnalyzed:    len(days),
	}
}

// RiskScore combines the factors with the fixed weights.
func RiskScore(f schema.BurnoutFactors) float64 {
	values := f.AsMap()
	var score float64
	for _, key := range schema.AllFactors {
		score += schema.BurnoutWeights[key] * values[key]
	}
	return clamp01(score)
}

// RiskLevelFor maps a score to its tier. Scores exactly on a threshold
// belong to the lower tier.
func RiskLevelFor(score float64) schema.RiskLevel {
	switch {
	case score > 0.75:
		return schema.RiskCritical
	case score > 0.5:
		return schema.RiskHigh
	case score > 0.3:
		return schema.RiskMedium
	default:
		return schema.RiskLow
	}
}

// Recommendations returns the advice for every factor over its threshold.
func Recommendations(f schema.BurnoutFactors) []schema.Recommendation {
	values := f.AsMap()
	recs := []schema.Recommendation{}
	for _, rule := range recommendationRules {
		if values[rule.factor] > rule.threshold {
			recs = append(recs, schema.Recommendation{
				Factor:   rule.factor,
				Priority: rule.priority,
				Message:  rule.message,
			})
		}
	}
	return recs
}

// LongHoursFactor is the fraction of days with more than ten working hours.
func LongHoursFactor(days []schema.DailyAggregate) float64 {
	long := 0
	for _, d := range days {
		if d.Hours() > longHoursThreshold {
			long++
		}
	}
	return clamp01(ratio(float64(long), float64(len(days))))
}

// WeekendFactor is the share of weekend days in the window's date range that
// had commits.
func WeekendFactor(days []schema.DailyAggregate) float64 {
	if len(days) == 0 {
		return 0
	}
	first, last := CivilDate(days[0].Date), CivilDate(days[0].Date)
	active := 0
	for _, d := range days {
		date := CivilDate(d.Date)
		if date.Before(first) {
			first = date
		}
		if date.After(last) {
			last = date
		}
		if d.IsWeekend && d.TotalCommits > 0 {
			active++
		}
	}
	return clamp01(ratio(float64(active), float64(WeekendDaysBetween(first, last))))
}

// WeekendDaysBetween counts the Saturdays and Sundays from first to last inclusive.
func WeekendDaysBetween(first, last time.Time) int {
	first, last = CivilDate(first), CivilDate(last)
	if last.Before(first) {
		return 0
	}
	total := daysBetween(last, first) + 1
	count := (total / 7) * 2
	start := first.Weekday()
	for i := range total % 7 {
		wd := (start + time.Weekday(i)) % 7
		if wd == time.Saturday || wd == time.Sunday {
			count++
		}
	}
	return count
}

// LateNightFactor is the share of commits made between 22:00 and 02:59.
func LateNightFactor(days []schema.DailyAggregate) float64 {
	late, total := 0, 0
	for _, d := range days {
		late += lateNightCommits(d)
		total += nonNeg(d.TotalCommits)
	}
	return clamp01(ratio(float64(late), float64(total)))
}

// NoBreaksFactor is the longest run of consecutive active days over fourteen.
func NoBreaksFactor(days []schema.DailyAggregate) float64 {
	return clamp01(float64(longestActiveRun(days)) / noBreaksRunDays)
}

// ProductivityDeclineFactor compares the average daily score of the first half
// of the window with the second. Days must be in ascending date order and at
// least fourteen long.
func ProductivityDeclineFactor(days []schema.DailyAggregate) float64 {
	if len(days) < minDeclineRecords {
		return 0
	}
	half := len(days) / 2
	first := meanScore(days[:half])
	second := meanScore(days[half:])
	return clamp01(ratio(first-second, first))
}

// InconsistencyFactor is the standard deviation of daily scores over thirty.
func InconsistencyFactor(days []schema.DailyAggregate) float64 {
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(d.ProductivityScore)
	}
	return clamp01(math.Sqrt(populationVariance(values)) / inconsistencyStdDev)
}

// meanScore averages the stored daily productivity scores.
func meanScore(days []schema.DailyAggregate) float64 {
	var sum float64
	for _, d := range days {
		sum += float64(d.ProductivityScore)
	}
	return ratio(sum, float64(len(days)))
}
