// Package parquet provides data structures and functions for exporting devflow
// store data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/parquet-go/parquet-go"
)

// DailyAggregate is one exported row of the devflow_daily_aggregates table.
// Map-valued columns are kept as JSON text.
type DailyAggregate struct {
	UserLogin string `parquet:"user_login,snappy,dict"`

	// Date is the civil day at midnight UTC
	Date time.Time `parquet:"activity_date,snappy"`

	TotalCommits int32 `parquet:"total_commits,snappy"`
	PRsOpened    int32 `parquet:"prs_opened,snappy"`
	PRsMerged    int32 `parquet:"prs_merged,snappy"`
	IssuesClosed int32 `parquet:"issues_closed,snappy"`
	CodeReviews  int32 `parquet:"code_reviews,snappy"`
	LinesAdded   int32 `parquet:"lines_added,snappy"`
	LinesDeleted int32 `parquet:"lines_deleted,snappy"`

	CommitsByHour string `parquet:"commits_by_hour,snappy"`
	Languages     string `parquet:"languages,snappy"`
	Repositories  string `parquet:"repositories,snappy"`

	ActiveHours           float64 `parquet:"active_hours,snappy"`
	CodingDurationMinutes int32   `parquet:"coding_duration_minutes,snappy"`
	IsWeekend             bool    `parquet:"is_weekend"`
	ProductivityScore     int32   `parquet:"productivity_score,snappy"`
}

// ArchetypeAssignment is one exported row of the archetype history.
type ArchetypeAssignment struct {
	ID              string  `parquet:"id,snappy"`
	UserLogin       string  `parquet:"user_login,snappy,dict"`
	ArchetypeKey    string  `parquet:"archetype_key,snappy,dict"`
	ConfidenceScore float64 `parquet:"confidence_score,snappy"`

	// TriggerMetrics and Scores are JSON-encoded
	TriggerMetrics string `parquet:"trigger_metrics,snappy"`
	Scores         string `parquet:"scores,snappy"`

	AssignedAt time.Time `parquet:"assigned_at,snappy"`

	// ValidUntil is null for the current assignment
	ValidUntil *time.Time `parquet:"valid_until,optional,snappy"`
}

// BurnoutPrediction is one exported row of the burnout audit trail.
// The six factors are flattened into their own columns.
type BurnoutPrediction struct {
	ID        string  `parquet:"id,snappy"`
	UserLogin string  `parquet:"user_login,snappy,dict"`
	RiskScore float64 `parquet:"risk_score,snappy"`
	RiskLevel string  `parquet:"risk_level,snappy,dict"`

	LongHours           float64 `parquet:"factor_long_hours,snappy"`
	WeekendWork         float64 `parquet:"factor_weekend_work,snappy"`
	LateNight           float64 `parquet:"factor_late_night,snappy"`
	NoBreaks            float64 `parquet:"factor_no_breaks,snappy"`
	ProductivityDecline float64 `parquet:"factor_productivity_decline,snappy"`
	Inconsistency       float64 `parquet:"factor_inconsistency,snappy"`

	// Recommendations is a JSON array
	Recommendations string    `parquet:"recommendations,snappy"`
	DaysAnalyzed    int32     `parquet:"days_analyzed,snappy"`
	PredictedAt     time.Time `parquet:"predicted_at,snappy"`
}

// writeParquet writes rows to outputPath using the schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteDailyAggregatesParquet writes daily aggregate rows to a Parquet file.
func WriteDailyAggregatesParquet(data []DailyAggregate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteArchetypeAssignmentsParquet writes archetype history rows to a Parquet file.
func WriteArchetypeAssignmentsParquet(data []ArchetypeAssignment, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBurnoutPredictionsParquet writes burnout prediction rows to a Parquet file.
func WriteBurnoutPredictionsParquet(data []BurnoutPrediction, outputPath string) error {
	return writeParquet(data, outputPath)
}

// jsonText encodes v as JSON, or returns the empty object on failure.
func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return "{}"
	}
	return string(data)
}

// ConvertDailyAggregates converts store rows for Parquet export.
func ConvertDailyAggregates(records []schema.DailyAggregate) []DailyAggregate {
	result := make([]DailyAggregate, len(records))
	for i, r := range records {
		result[i] = DailyAggregate{
			UserLogin:             r.UserLogin,
			Date:                  r.Date,
			TotalCommits:          int32(r.TotalCommits),
			PRsOpened:             int32(r.PRsOpened),
			PRsMerged:             int32(r.PRsMerged),
			IssuesClosed:          int32(r.IssuesClosed),
			CodeReviews:           int32(r.CodeReviews),
			LinesAdded:            int32(r.LinesAdded),
			LinesDeleted:          int32(r.LinesDeleted),
			CommitsByHour:         jsonText(r.CommitsByHour),
			Languages:             jsonText(r.Languages),
			Repositories:          jsonText(r.Repositories),
			ActiveHours:           r.ActiveHours,
			CodingDurationMinutes: int32(r.CodingDurationMinutes),
			IsWeekend:             r.IsWeekend,
			ProductivityScore:     int32(r.ProductivityScore),
		}
	}
	return result
}

// ConvertArchetypeAssignments converts archetype history for Parquet export.
func ConvertArchetypeAssignments(records []schema.ArchetypeAssignment) []ArchetypeAssignment {
	result := make([]ArchetypeAssignment, len(records))
	for i, r := range records {
		result[i] = ArchetypeAssignment{
			ID:              r.ID,
			UserLogin:       r.UserLogin,
			ArchetypeKey:    string(r.ArchetypeKey),
			ConfidenceScore: r.ConfidenceScore,
			TriggerMetrics:  jsonText(r.TriggerMetrics),
			Scores:          jsonText(r.Scores),
			AssignedAt:      r.AssignedAt,
			ValidUntil:      r.ValidUntil,
		}
	}
	return result
}

// ConvertBurnoutPredictions converts the burnout audit trail for Parquet export.
func ConvertBurnoutPredictions(records []schema.BurnoutPredictionRecord) []BurnoutPrediction {
	result := make([]BurnoutPrediction, len(records))
	for i, r := range records {
		recs := r.Recommendations
		if recs == nil {
			recs = []schema.Recommendation{}
		}
		result[i] = BurnoutPrediction{
			ID:                  r.ID,
			UserLogin:           r.UserLogin,
			RiskScore:           r.RiskScore,
			RiskLevel:           string(r.RiskLevel),
			LongHours:           r.Factors.LongHours,
			WeekendWork:         r.Factors.WeekendWork,
			LateNight:           r.Factors.LateNight,
			NoBreaks:            r.Factors.NoBreaks,
			ProductivityDecline: r.Factors.ProductivityDecline,
			Inconsistency:       r.Factors.Inconsistency,
			Recommendations:     jsonText(recs),
			DaysAnalyzed:        int32(r.DaysAnalyzed),
			PredictedAt:         r.PredictedAt,
		}
	}
	return result
}
