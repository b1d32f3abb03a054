package core

import (
	"errors"
	"testing"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ingestConfig() *contract.Config {
	cfg := testConfig()
	cfg.Repos = []string{"octo/api"}
	return cfg
}

func ingestEvents() []schema.ActivityEvent {
	return []schema.ActivityEvent{
		{Kind: schema.CommitEvent, Repository: "octo/api", At: time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), Additions: 10},
		{Kind: schema.CommitEvent, Repository: "octo/api", At: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC), Additions: 3},
		{Kind: schema.ReviewEvent, Repository: "octo/api", At: time.Date(2024, 3, 14, 11, 0, 0, 0, time.UTC)},
	}
}

func TestRunIngest(t *testing.T) {
	mgr, activity, _ := mocks()
	src := &contract.MockActivitySource{}

	start := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	src.On("FetchEvents", mock.Anything, "octocat", []string{"octo/api"}, start, end).Return(ingestEvents(), nil)

	// The past day already exists, today is rewritten.
	activity.On("UpsertDailyAggregate", mock.MatchedBy(func(agg schema.DailyAggregate) bool {
		return agg.Date.Equal(testToday.AddDate(0, 0, -1)) && agg.TotalCommits == 1
	}), testToday, false).Return(false, nil).Once()
	activity.On("UpsertDailyAggregate", mock.MatchedBy(func(agg schema.DailyAggregate) bool {
		return agg.Date.Equal(testToday) && agg.TotalCommits == 1 && agg.CodeReviews == 1
	}), testToday, false).Return(true, nil).Once()
	activity.On("GetDailyAggregates", "octocat", time.Time{}, testToday).Return(recentDays(2, 1, 1), nil)
	activity.On("UpsertUser", mock.MatchedBy(func(rec schema.UserRecord) bool {
		return rec.CurrentStreak == 2
	})).Return(nil)

	summary, err := RunIngest(testContext(), ingestConfig(), mgr, src)
	require.NoError(t, err)
	assert.Equal(t, "octocat", summary.UserLogin)
	assert.Equal(t, 3, summary.Events)
	assert.Equal(t, 2, summary.Days)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, testToday.AddDate(0, 0, -29), summary.From)
	src.AssertExpectations(t)
	activity.AssertExpectations(t)
}

func TestRunIngest_Recompute(t *testing.T) {
	mgr, activity, _ := mocks()
	src := &contract.MockActivitySource{}
	src.On("FetchEvents", mock.Anything, "octocat", mock.Anything, mock.Anything, mock.Anything).Return(ingestEvents(), nil)
	activity.On("UpsertDailyAggregate", mock.Anything, testToday, true).Return(true, nil).Twice()
	activity.On("GetDailyAggregates", "octocat", time.Time{}, testToday).Return(nil, nil)
	activity.On("UpsertUser", mock.Anything).Return(nil)

	cfg := ingestConfig()
	cfg.Recompute = true
	summary, err := RunIngest(testContext(), cfg, mgr, src)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Written)
	assert.Zero(t, summary.Skipped)
	activity.AssertExpectations(t)
}

func TestRunIngest_Errors(t *testing.T) {
	t.Run("missing repos", func(t *testing.T) {
		_, err := RunIngest(testContext(), testConfig(), nil, &contract.MockActivitySource{})
		assert.EqualError(t, err, "at least one repository is required (--repos)")
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := RunIngest(testContext(), ingestConfig(), nil, nil)
		assert.EqualError(t, err, "activity source is not initialized")
	})

	t.Run("fetch failure", func(t *testing.T) {
		mgr, _, _ := mocks()
		src := &contract.MockActivitySource{}
		src.On("FetchEvents", mock.Anything, "octocat", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))
		_, err := RunIngest(testContext(), ingestConfig(), mgr, src)
		assert.ErrorContains(t, err, "failed to fetch activity: rate limited")
	})

	t.Run("store failure", func(t *testing.T) {
		mgr, activity, _ := mocks()
		src := &contract.MockActivitySource{}
		src.On("FetchEvents", mock.Anything, "octocat", mock.Anything, mock.Anything, mock.Anything).Return(ingestEvents(), nil)
		activity.On("UpsertDailyAggregate", mock.Anything, testToday, false).Return(false, errors.New("locked"))
		_, err := RunIngest(testContext(), ingestConfig(), mgr, src)
		assert.ErrorContains(t, err, "failed to store aggregate for 2024-03-13: locked")
	})

	t.Run("history failure only warns", func(t *testing.T) {
		mgr, activity, _ := mocks()
		src := &contract.MockActivitySource{}
		src.On("FetchEvents", mock.Anything, "octocat", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		activity.On("GetDailyAggregates", "octocat", time.Time{}, testToday).Return(nil, errors.New("gone"))
		summary, err := RunIngest(testContext(), ingestConfig(), mgr, src)
		require.NoError(t, err)
		assert.Zero(t, summary.Days)
		activity.AssertNotCalled(t, "UpsertUser", mock.Anything)
	})
}
