package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devflow/devflow/core/algo"
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/google/uuid"
)

// assignedAtResolution matches the finest timestamp every store backend keeps.
const assignedAtResolution = time.Microsecond

var (
	errNoActivityStore = errors.New("activity store is not initialized")
	errNoInsightStore  = errors.New("insight store is not initialized")
)

// activityStore returns the manager's activity store or an error when none is wired.
func activityStore(mgr contract.StoreManager) (contract.ActivityStore, error) {
	if mgr == nil {
		return nil, errNoActivityStore
	}
	store := mgr.GetActivityStore()
	if store == nil {
		return nil, errNoActivityStore
	}
	return store, nil
}

// insightStore returns the manager's insight store or an error when none is wired.
func insightStore(mgr contract.StoreManager) (contract.InsightStore, error) {
	if mgr == nil {
		return nil, errNoInsightStore
	}
	store := mgr.GetInsightStore()
	if store == nil {
		return nil, errNoInsightStore
	}
	return store, nil
}

// loadRange fetches the user's aggregates for from..cfg.Today inclusive.
func loadRange(store contract.ActivityStore, cfg *contract.Config, from time.Time) ([]schema.DailyAggregate, error) {
	days, err := store.GetDailyAggregates(cfg.User, from, cfg.Today)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily aggregates: %w", err)
	}
	contract.LogDebug("Loaded daily aggregates", "user", cfg.User, "from", from.Format(contract.DateFormat), "rows", len(days))
	return days, nil
}

// loadHistory fetches every stored aggregate of the user up to cfg.Today.
func loadHistory(store contract.ActivityStore, cfg *contract.Config) ([]schema.DailyAggregate, error) {
	return loadRange(store, cfg, time.Time{})
}

// since keeps the days on or after from. days must be sorted by date.
func since(days []schema.DailyAggregate, from time.Time) []schema.DailyAggregate {
	for i, d := range days {
		if !d.Date.Before(from) {
			return days[i:]
		}
	}
	return nil
}

// GetScoreResult computes the productivity score over the configured window.
func GetScoreResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ScoreResult, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.ScoreResult{}, err
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.ScoreResult{}, err
	}
	from := cfg.WindowStart(cfg.WindowDays)
	logAnalysisHeader(ctx, cfg, "score", from)

	days, err := loadRange(store, cfg, from)
	if err != nil {
		return schema.ScoreResult{}, err
	}
	return algo.ScoreProductivity(algo.StatsFromAggregates(days)), nil
}

// GetStreakResult computes the user's streaks over their whole history and
// refreshes the cached user row.
func GetStreakResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.StreakInfo, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.StreakInfo{}, err
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.StreakInfo{}, err
	}
	logAnalysisHeader(ctx, cfg, "streak", time.Time{})

	days, err := loadHistory(store, cfg)
	if err != nil {
		return schema.StreakInfo{}, err
	}
	info := algo.CalculateStreakInfo(days, cfg.Today)
	refreshUser(ctx, store, cfg, info)
	return info, nil
}

// refreshUser stores the streak on the cached user row. Failures only warn.
func refreshUser(ctx context.Context, store contract.ActivityStore, cfg *contract.Config, info schema.StreakInfo) {
	rec := schema.UserRecord{
		Login:         cfg.User,
		Timezone:      locationName(cfg.Location),
		CurrentStreak: info.Current,
		LongestStreak: info.Longest,
		UpdatedAt:     nowFrom(ctx).UTC().Truncate(assignedAtResolution),
	}
	if err := store.UpsertUser(rec); err != nil {
		contract.LogWarn("Failed to refresh cached streak", err)
	}
}

// locationName returns the IANA name stored on the user row.
func locationName(loc *time.Location) string {
	if loc == nil {
		return time.UTC.String()
	}
	return loc.String()
}

// cachedStreak returns the current streak from the user row when it was
// refreshed on cfg.Today. A missing or stale row is recomputed from history
// and rewritten.
func cachedStreak(ctx context.Context, store contract.ActivityStore, cfg *contract.Config) (int, error) {
	rec, found, err := store.GetUser(cfg.User)
	if err != nil {
		return 0, fmt.Errorf("failed to read user %s: %w", cfg.User, err)
	}
	if found && contract.CivilDay(rec.UpdatedAt, cfg.Location).Equal(cfg.Today) {
		return rec.CurrentStreak, nil
	}
	days, err := loadHistory(store, cfg)
	if err != nil {
		return 0, err
	}
	info := algo.CalculateStreakInfo(days, cfg.Today)
	refreshUser(ctx, store, cfg, info)
	return info.Current, nil
}

// GetBurnoutResult assesses burnout risk over the configured window. With
// cfg.Record set, an assessment backed by enough data is appended to the
// prediction audit trail.
func GetBurnoutResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.BurnoutAssessment, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.BurnoutAssessment{}, err
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.BurnoutAssessment{}, err
	}
	from := cfg.WindowStart(cfg.WindowDays)
	logAnalysisHeader(ctx, cfg, "burnout", from)

	days, err := loadRange(store, cfg, from)
	if err != nil {
		return schema.BurnoutAssessment{}, err
	}
	assessment := algo.AssessBurnout(days)
	if !cfg.Record {
		return assessment, nil
	}
	if !assessment.HasEnoughData {
		contract.LogInfo("Skipping burnout record", "user", cfg.User, "reason", assessment.Message)
		return assessment, nil
	}

	insight, err := insightStore(mgr)
	if err != nil {
		return assessment, err
	}
	rec := schema.BurnoutPredictionRecord{
		ID:              uuid.NewString(),
		UserLogin:       cfg.User,
		RiskScore:       assessment.RiskScore,
		RiskLevel:       assessment.RiskLevel,
		Factors:         assessment.Factors,
		Recommendations: assessment.Recommendations,
		DaysAnalyzed:    assessment.DaysAnalyzed,
		PredictedAt:     nowFrom(ctx).UTC().Truncate(assignedAtResolution),
	}
	if err := insight.RecordBurnoutPrediction(rec); err != nil {
		return assessment, fmt.Errorf("failed to record burnout prediction: %w", err)
	}
	contract.LogDebug("Recorded burnout prediction", "user", cfg.User, "id", rec.ID, "risk", rec.RiskLevel)
	return assessment, nil
}

// RevealArchetype classifies the user over the last two weeks and, when there
// is enough data, supersedes the current assignment with the new one.
func RevealArchetype(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.RevealResult, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.RevealResult{}, err
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.RevealResult{}, err
	}
	from := cfg.WindowStart(algo.ArchetypeWindowDays)
	logAnalysisHeader(ctx, cfg, "archetype", from)

	days, err := loadRange(store, cfg, from)
	if err != nil {
		return schema.RevealResult{}, err
	}
	if len(days) < algo.MinArchetypeRecords {
		return schema.RevealResult{ArchetypeResult: algo.ClassifyArchetype(days, 0)}, nil
	}

	streak, err := cachedStreak(ctx, store, cfg)
	if err != nil {
		return schema.RevealResult{}, err
	}
	result := algo.ClassifyArchetype(days, streak)
	reveal := schema.RevealResult{ArchetypeResult: result}

	insight, err := insightStore(mgr)
	if err != nil {
		return reveal, err
	}
	next := schema.ArchetypeAssignment{
		ID:              uuid.NewString(),
		UserLogin:       cfg.User,
		ArchetypeKey:    result.Archetype,
		ConfidenceScore: result.ConfidenceScore,
		TriggerMetrics:  result.Features,
		Scores:          result.Scores,
		AssignedAt:      nowFrom(ctx).UTC().Truncate(assignedAtResolution),
	}
	prev, err := insight.SupersedeAndInsert(next)
	if err != nil {
		return reveal, fmt.Errorf("failed to store archetype assignment: %w", err)
	}
	reveal.Assignment = &next
	reveal.Superseded = prev
	if prev != nil {
		contract.LogDebug("Superseded archetype", "user", cfg.User, "previous", prev.ArchetypeKey, "next", next.ArchetypeKey)
	}
	return reveal, nil
}

// GetArchetypeHistory lists every archetype assignment of the user, newest first.
func GetArchetypeHistory(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ArchetypeAssignment, error) {
	if err := cfg.RequireUser(); err != nil {
		return nil, err
	}
	insight, err := insightStore(mgr)
	if err != nil {
		return nil, err
	}
	history, err := insight.ListArchetypeHistory(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("failed to list archetype history: %w", err)
	}
	return history, nil
}

// GetActivityReport computes every metric for the user in one pass over
// their history.
func GetActivityReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ActivityReport, error) {
	if err := cfg.RequireUser(); err != nil {
		return schema.ActivityReport{}, err
	}
	store, err := activityStore(mgr)
	if err != nil {
		return schema.ActivityReport{}, err
	}
	from := cfg.WindowStart(cfg.WindowDays)
	logAnalysisHeader(ctx, cfg, "report", from)

	history, err := loadHistory(store, cfg)
	if err != nil {
		return schema.ActivityReport{}, err
	}
	window := since(history, from)

	return schema.ActivityReport{
		UserLogin:   cfg.User,
		From:        from,
		To:          cfg.Today,
		Score:       algo.ScoreProductivity(algo.StatsFromAggregates(window)),
		Streak:      algo.CalculateStreakInfo(history, cfg.Today),
		CodeVolume:  algo.CalculateCodeVolume(window),
		CommitTimes: algo.AnalyzeCommitTimes(window),
		DayOfWeek:   algo.AnalyzeDayOfWeek(window),
		Languages:   algo.CalculateLanguageDistribution(window, cfg.ResultLimit),
		Repos:       algo.GetTopRepositories(window, cfg.ResultLimit),
		Heatmap:     algo.GenerateHeatmap(since(history, cfg.WindowStart(cfg.HeatmapWeeks*7)), cfg.Today, cfg.HeatmapWeeks),
		Burnout:     algo.AssessBurnout(window),
	}, nil
}
