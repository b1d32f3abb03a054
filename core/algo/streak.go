package algo

import (
	"time"

	"github.com/devflow/devflow/schema"
)

// CalculateStreakInfo computes the current and longest commit streaks.
//
// Input order does not matter. Only days with commits count, and a date seen
// twice counts once. The current streak is alive only when the latest active
// day is today or yesterday. The longest streak scans the whole history
// independently, so an inactive user can still have one.
func CalculateStreakInfo(days []schema.DailyAggregate, today time.Time) schema.StreakInfo {
	dates := activeDates(days)
	if len(dates) == 0 {
		return schema.StreakInfo{}
	}

	todayDate := CivilDate(today)
	current := 0
	if gap := daysBetween(todayDate, dates[0]); gap == 0 || gap == 1 {
		current = 1
		for i := 1; i < len(dates); i++ {
			if daysBetween(dates[i-1], dates[i]) != 1 {
				break
			}
			current++
		}
	}

	longest, temp := 0, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			temp++
			continue
		}
		longest = max(longest, temp)
		temp = 1
	}
	longest = max(longest, temp, current)

	last := dates[0]
	return schema.StreakInfo{
		Current:        current,
		Longest:        longest,
		LastCommitDate: &last,
	}
}

// longestActiveRun returns the longest run of consecutive calendar days with commits.
func longestActiveRun(days []schema.DailyAggregate) int {
	dates := activeDates(days)
	if len(dates) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			run++
			longest = max(longest, run)
			continue
		}
		run = 1
	}
	return longest
}
