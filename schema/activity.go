// Package schema has the records, enums and results shared by every part of devflow.
package schema

import "time"

// DailyAggregate is one row of a user's per-day coding activity summary.
// Date is the civil day at midnight UTC.
type DailyAggregate struct {
	UserLogin             string         `json:"user_login"`
	Date                  time.Time      `json:"date"`
	TotalCommits          int            `json:"total_commits"`
	PRsOpened             int            `json:"prs_opened"`
	PRsMerged             int            `json:"prs_merged"`
	IssuesClosed          int            `json:"issues_closed"`
	CodeReviews           int            `json:"code_reviews"`
	LinesAdded            int            `json:"lines_added"`
	LinesDeleted          int            `json:"lines_deleted"`
	CommitsByHour         map[int]int    `json:"commits_by_hour,omitempty"`
	Languages             map[string]int `json:"languages,omitempty"`
	Repositories          map[string]int `json:"repositories,omitempty"`
	ActiveHours           float64        `json:"active_hours"`
	CodingDurationMinutes int            `json:"coding_duration_minutes"`
	IsWeekend             bool           `json:"is_weekend"`
	ProductivityScore     int            `json:"productivity_score"`
}

// Hours returns the observed working time for the day.
// CodingDurationMinutes is used when ActiveHours was never recorded.
func (d DailyAggregate) Hours() float64 {
	if d.ActiveHours > 0 {
		return d.ActiveHours
	}
	return float64(d.CodingDurationMinutes) / 60.0
}

// LinesChanged returns added plus deleted lines.
func (d DailyAggregate) LinesChanged() int {
	return d.LinesAdded + d.LinesDeleted
}

// ProductivityStats is the input to the productivity score.
type ProductivityStats struct {
	Commits      int `json:"commits"`
	PRsMerged    int `json:"prs_merged"`
	PRsOpened    int `json:"prs_opened"`
	IssuesClosed int `json:"issues_closed"`
	Reviews      int `json:"reviews"`
	LinesAdded   int `json:"lines_added"`
	LinesDeleted int `json:"lines_deleted"`
	ActiveDays   int `json:"active_days"`
}

// ActivityEvent is one raw event fetched from a source such as GitHub.
type ActivityEvent struct {
	Kind       EventKind `json:"kind"`
	Repository string    `json:"repository"`
	At         time.Time `json:"at"`
	Additions  int       `json:"additions,omitempty"`
	Deletions  int       `json:"deletions,omitempty"`
	Files      []string  `json:"files,omitempty"`
}

// IngestSummary reports what one ingest run fetched and wrote.
type IngestSummary struct {
	UserLogin string    `json:"user_login"`
	Repos     []string  `json:"repos"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Events    int       `json:"events"`
	Days      int       `json:"days"`
	Written   int       `json:"written"`
	Skipped   int       `json:"skipped"`
}
