// Package algo has the pure analytics over daily aggregates: scores, streaks,
// distributions, burnout risk and archetype classification.
// Nothing here performs I/O or reads the clock; callers inject "today".
package algo

import (
	"math"
	"sort"
	"time"

	"github.com/devflow/devflow/schema"
)

// lateNightHours are the hours counted as late-night work.
var lateNightHours = []int{22, 23, 0, 1, 2}

// CivilDate truncates t to its calendar day in t's own location and
// returns that day as midnight UTC, the representation used for aggregate dates.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole number of calendar days from b to a.
func daysBetween(a, b time.Time) int {
	return int(math.Round(CivilDate(a).Sub(CivilDate(b)).Hours() / 24))
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nonNeg maps negative counts to zero.
func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// ratio divides safely, returning 0 when the denominator is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// percentOf returns count as a rounded integer percentage of total.
func percentOf(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

// populationVariance is the mean squared deviation of values.
func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

// sortedByDate returns a copy of days ordered by ascending date.
func sortedByDate(days []schema.DailyAggregate) []schema.DailyAggregate {
	out := make([]schema.DailyAggregate, len(days))
	copy(out, days)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// activeDates returns the distinct calendar dates with commits, newest first.
func activeDates(days []schema.DailyAggregate) []time.Time {
	seen := make(map[time.Time]struct{}, len(days))
	var dates []time.Time
	for _, d := range days {
		if d.TotalCommits <= 0 {
			continue
		}
		day := CivilDate(d.Date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates
}

// lateNightCommits sums the commits made in late-night hours.
func lateNightCommits(d schema.DailyAggregate) int {
	total := 0
	for _, h := range lateNightHours {
		total += nonNeg(d.CommitsByHour[h])
	}
	return total
}
