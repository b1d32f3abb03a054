package algo

import (
	"sort"
	"time"

	"github.com/devflow/devflow/schema"
)

// Heatmap level thresholds: 0, 1-3, 4-6, 7-9, 10+.
var heatmapThresholds = []int{1, 4, 7, 10}

// AnalyzeCommitTimes builds the 24-hour commit histogram.
// Hours outside 0-23 are ignored. The peak hour is the earliest hour with the
// most commits, or -1 when there are none.
func AnalyzeCommitTimes(days []schema.DailyAggregate) schema.CommitTimeDistribution {
	var counts [24]int
	total := 0
	for _, d := range days {
		for hour, n := range d.CommitsByHour {
			if hour < 0 || hour > 23 || n <= 0 {
				continue
			}
			counts[hour] += n
			total += n
		}
	}

	dist := schema.CommitTimeDistribution{
		Hours:        make([]schema.HourBucket, 24),
		PeakHour:     -1,
		TotalCommits: total,
	}
	best := 0
	for hour, n := range counts {
		dist.Hours[hour] = schema.HourBucket{Hour: hour, Commits: n, Percentage: percentOf(n, total)}
		if n > best {
			best = n
			dist.PeakHour = hour
		}
	}
	return dist
}

// AnalyzeDayOfWeek builds the Sunday-first weekday histogram.
func AnalyzeDayOfWeek(days []schema.DailyAggregate) schema.DayOfWeekDistribution {
	var commits, active [7]int
	total := 0
	for _, d := range days {
		n := nonNeg(d.TotalCommits)
		wd := d.Date.Weekday()
		commits[wd] += n
		total += n
		if n > 0 {
			active[wd]++
		}
	}

	dist := schema.DayOfWeekDistribution{
		Days:         make([]schema.DayBucket, 7),
		TotalCommits: total,
	}
	best := 0
	for i := range 7 {
		wd := time.Weekday(i)
		dist.Days[i] = schema.DayBucket{
			Day:        wd,
			Name:       wd.String(),
			Commits:    commits[i],
			ActiveDays: active[i],
			Percentage: percentOf(commits[i], total),
		}
		if commits[i] > best {
			best = commits[i]
			dist.MostActiveDay = wd.String()
		}
	}
	return dist
}

// keyCount is an intermediate pair used for ranking maps.
type keyCount struct {
	key   string
	count int
}

// rankCounts merges the maps selected by pick, then sorts by count descending
// and key ascending. A limit of zero or less keeps every entry.
func rankCounts(days []schema.DailyAggregate, pick func(schema.DailyAggregate) map[string]int, limit int) ([]keyCount, int) {
	totals := make(map[string]int)
	sum := 0
	for _, d := range days {
		for k, n := range pick(d) {
			if n <= 0 || k == "" {
				continue
			}
			totals[k] += n
			sum += n
		}
	}

	ranked := make([]keyCount, 0, len(totals))
	for k, n := range totals {
		ranked = append(ranked, keyCount{key: k, count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, sum
}

// CalculateLanguageDistribution ranks languages by count. Percentages are
// relative to every language, not only the ones kept by limit.
func CalculateLanguageDistribution(days []schema.DailyAggregate, limit int) []schema.LanguageShare {
	ranked, total := rankCounts(days, func(d schema.DailyAggregate) map[string]int { return d.Languages }, limit)
	out := make([]schema.LanguageShare, len(ranked))
	for i, kc := range ranked {
		out[i] = schema.LanguageShare{Language: kc.key, Count: kc.count, Percentage: percentOf(kc.count, total)}
	}
	return out
}

// GetTopRepositories ranks repositories by commit count.
func GetTopRepositories(days []schema.DailyAggregate, limit int) []schema.RepositoryShare {
	ranked, total := rankCounts(days, func(d schema.DailyAggregate) map[string]int { return d.Repositories }, limit)
	out := make([]schema.RepositoryShare, len(ranked))
	for i, kc := range ranked {
		out[i] = schema.RepositoryShare{Repository: kc.key, Commits: kc.count, Percentage: percentOf(kc.count, total)}
	}
	return out
}

// CalculateCodeVolume sums lines changed over the window.
func CalculateCodeVolume(days []schema.DailyAggregate) schema.CodeVolume {
	var v schema.CodeVolume
	for _, d := range days {
		v.LinesAdded += nonNeg(d.LinesAdded)
		v.LinesDeleted += nonNeg(d.LinesDeleted)
	}
	v.NetLines = v.LinesAdded - v.LinesDeleted
	v.TotalChanged = v.LinesAdded + v.LinesDeleted
	v.AvgChangedPerActive = ratio(float64(v.TotalChanged), float64(len(activeDates(days))))
	return v
}

// HeatmapLevel buckets a commit count into levels 0-4.
func HeatmapLevel(commits int) int {
	level := 0
	for _, threshold := range heatmapThresholds {
		if commits >= threshold {
			level++
		}
	}
	return level
}

// GenerateHeatmap returns one cell per calendar day for the weeks ending today,
// oldest first. Days without an aggregate are level 0.
func GenerateHeatmap(days []schema.DailyAggregate, today time.Time, weeks int) []schema.HeatmapCell {
	if weeks <= 0 {
		return nil
	}
	byDate := make(map[time.Time]int, len(days))
	for _, d := range days {
		byDate[CivilDate(d.Date)] += nonNeg(d.TotalCommits)
	}

	end := CivilDate(today)
	n := weeks * 7
	cells := make([]schema.HeatmapCell, n)
	for i := range n {
		date := end.AddDate(0, 0, i-n+1)
		commits := byDate[date]
		cells[i] = schema.HeatmapCell{Date: date, Commits: commits, Level: HeatmapLevel(commits)}
	}
	return cells
}
