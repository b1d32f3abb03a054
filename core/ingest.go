package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devflow/devflow/core/agg"
	"github.com/devflow/devflow/core/algo"
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// RunIngest pulls the user's events for the configured window from src and
// upserts one aggregate per day, then refreshes the cached streak.
func RunIngest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, src contract.ActivitySource) (schema.IngestSummary, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.IngestSummary{}, err
	}
	if len(cfg.Repos) == 0 {
		return schema.IngestSummary{}, errors.New("at least one repository is required (--repos)")
	}
	if src == nil {
		return schema.IngestSummary{}, errors.New("activity source is not initialized")
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.IngestSummary{}, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	from := cfg.WindowStart(cfg.WindowDays)
	logAnalysisHeader(ctx, cfg, "ingest", from)

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(cfg.Today.Year(), cfg.Today.Month(), cfg.Today.Day()+1, 0, 0, 0, 0, loc)
	events, err := src.FetchEvents(ctx, cfg.User, cfg.Repos, start, end)
	if err != nil {
		return schema.IngestSummary{}, fmt.Errorf("failed to fetch activity: %w", err)
	}

	summary := schema.IngestSummary{
		UserLogin: cfg.User,
		Repos:     cfg.Repos,
		From:      from,
		To:        cfg.Today,
		Events:    len(events),
	}
	days := agg.BuildDailyAggregates(cfg.User, events, loc)
	summary.Days = len(days)
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		written, err := store.UpsertDailyAggregate(day, cfg.Today, cfg.Recompute)
		if err != nil {
			return summary, fmt.Errorf("failed to store aggregate for %s: %w", day.Date.Format(contract.DateFormat), err)
		}
		if written {
			summary.Written++
		} else {
			summary.Skipped++
		}
	}
	contract.LogDebug("Ingested activity", "user", cfg.User, "events", summary.Events, "written", summary.Written, "skipped", summary.Skipped)

	history, err := loadHistory(store, cfg)
	if err != nil {
		contract.LogWarn("Skipping streak refresh", err)
		return summary, nil
	}
	refreshUser(ctx, store, cfg, algo.CalculateStreakInfo(history, cfg.Today))
	return summary, nil
}
