// Package contract provides interfaces and shared utilities for devflow's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/devflow/devflow/schema"
)

// ActivitySource fetches raw developer activity from an upstream provider.
// This allows ingestion to be tested without network access.
type ActivitySource interface {
	// FetchEvents returns every commit, PR, issue and review event for user
	// in the given repositories between since and until.
	FetchEvents(ctx context.Context, user string, repos []string, since, until time.Time) ([]schema.ActivityEvent, error)
}

// StoreManager defines the interface for managing the backing stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetActivityStore() ActivityStore
	GetInsightStore() InsightStore
}

// ActivityStore holds daily aggregates and the cached per-user streak row.
type ActivityStore interface {
	// UpsertDailyAggregate writes one (user, date) row. An existing past day is
	// left untouched unless recompute is set. It reports whether a row was written.
	UpsertDailyAggregate(agg schema.DailyAggregate, today time.Time, recompute bool) (bool, error)

	// GetDailyAggregates returns the user's rows with from <= date <= to, oldest first.
	GetDailyAggregates(user string, from, to time.Time) ([]schema.DailyAggregate, error)

	// GetUser returns the cached user row and whether it exists.
	GetUser(login string) (schema.UserRecord, bool, error)

	// UpsertUser refreshes the cached user row.
	UpsertUser(rec schema.UserRecord) error

	// GetAllDailyAggregates returns every stored row, ordered by user and date.
	GetAllDailyAggregates() ([]schema.DailyAggregate, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// InsightStore holds the append-only archetype history and burnout audit trail.
type InsightStore interface {
	// SupersedeAndInsert stamps the user's current assignment as ending at
	// next.AssignedAt and inserts next, in one transaction. It returns the
	// superseded record, or nil when the user had none.
	SupersedeAndInsert(next schema.ArchetypeAssignment) (*schema.ArchetypeAssignment, error)

	// GetCurrentArchetype returns the assignment with no end of validity, or nil.
	GetCurrentArchetype(user string) (*schema.ArchetypeAssignment, error)

	// ListArchetypeHistory returns every assignment for user, newest first.
	ListArchetypeHistory(user string) ([]schema.ArchetypeAssignment, error)

	// RecordBurnoutPrediction appends a burnout assessment to the audit trail.
	RecordBurnoutPrediction(rec schema.BurnoutPredictionRecord) error

	// ListBurnoutPredictions returns up to limit predictions for user, newest first.
	ListBurnoutPredictions(user string, limit int) ([]schema.BurnoutPredictionRecord, error)

	// GetAllArchetypeAssignments returns every assignment of every user.
	GetAllArchetypeAssignments() ([]schema.ArchetypeAssignment, error)

	// GetAllBurnoutPredictions returns every recorded prediction.
	GetAllBurnoutPredictions() ([]schema.BurnoutPredictionRecord, error)
}
