// Package agg folds raw activity events into daily aggregates.
package agg

import (
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/devflow/devflow/core/algo"
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/go-enry/go-enry/v2"
)

// sessionPadding is added to the first-to-last commit span of a day.
const sessionPadding = 30 * time.Minute

// dayBuilder accumulates the events of one civil day.
type dayBuilder struct {
	agg         schema.DailyAggregate
	first, last time.Time
}

// LanguageForPath detects the programming language of a changed file.
// Vendored and dot files are ignored.
func LanguageForPath(path string) string {
	if path == "" || enry.IsVendor(path) || enry.IsDotFile(path) {
		return ""
	}
	lang, _ := enry.GetLanguageByExtension(path)
	if lang == "" {
		lang, _ = enry.GetLanguageByFilename(filepath.Base(path))
	}
	return lang
}

// BuildDailyAggregates groups raw events into one aggregate per civil day in
// loc, oldest first. Each day's productivity score is computed with one
// active day.
func BuildDailyAggregates(user string, events []schema.ActivityEvent, loc *time.Location) []schema.DailyAggregate {
	if loc == nil {
		loc = time.UTC
	}
	byDay := make(map[time.Time]*dayBuilder)
	for _, ev := range events {
		if ev.At.IsZero() {
			continue
		}
		date := contract.CivilDay(ev.At, loc)
		b, ok := byDay[date]
		if !ok {
			b = &dayBuilder{agg: schema.DailyAggregate{
				UserLogin: user,
				Date:      date,
				IsWeekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
			}}
			byDay[date] = b
		}
		b.add(ev, loc)
	}

	out := make([]schema.DailyAggregate, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, b.build())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// add folds one event into the day.
func (b *dayBuilder) add(ev schema.ActivityEvent, loc *time.Location) {
	switch ev.Kind {
	case schema.CommitEvent:
		b.agg.TotalCommits++
		b.agg.LinesAdded += max(ev.Additions, 0)
		b.agg.LinesDeleted += max(ev.Deletions, 0)
		if b.agg.CommitsByHour == nil {
			b.agg.CommitsByHour = make(map[int]int)
		}
		b.agg.CommitsByHour[ev.At.In(loc).Hour()]++
		if ev.Repository != "" {
			if b.agg.Repositories == nil {
				b.agg.Repositories = make(map[string]int)
			}
			b.agg.Repositories[ev.Repository]++
		}
		for _, path := range ev.Files {
			lang := LanguageForPath(path)
			if lang == "" {
				continue
			}
			if b.agg.Languages == nil {
				b.agg.Languages = make(map[string]int)
			}
			b.agg.Languages[lang]++
		}
		if b.first.IsZero() || ev.At.Before(b.first) {
			b.first = ev.At
		}
		if ev.At.After(b.last) {
			b.last = ev.At
		}
	case schema.PROpenedEvent:
		b.agg.PRsOpened++
	case schema.PRMergedEvent:
		b.agg.PRsMerged++
	case schema.IssueClosedEvent:
		b.agg.IssuesClosed++
	case schema.ReviewEvent:
		b.agg.CodeReviews++
	}
}

// build derives the duration fields and the day's score.
func (b *dayBuilder) build() schema.DailyAggregate {
	agg := b.agg
	if agg.TotalCommits > 0 {
		span := b.last.Sub(b.first) + sessionPadding
		agg.CodingDurationMinutes = int(span / time.Minute)
		agg.ActiveHours = math.Round(span.Hours()*100) / 100
	}
	agg.ProductivityScore = algo.DailyProductivityScore(agg)
	return agg
}
