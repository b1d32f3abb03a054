package datastore

import (
	"errors"
	"fmt"
	"io"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/parquet"
)

// ExportSummary reports what ExecuteStoreExport wrote.
type ExportSummary struct {
	Files map[string]int // path -> rows written
}

// ExecuteStoreExport exports every table of the store to Parquet files named
// after outputFile.
func ExecuteStoreExport(mgr contract.StoreManager, outputFile string, w io.Writer) (ExportSummary, error) {
	summary := ExportSummary{Files: map[string]int{}}
	if outputFile == "" {
		return summary, errors.New("--output-file is required for export command")
	}

	activity := mgr.GetActivityStore()
	insight := mgr.GetInsightStore()
	if activity == nil || insight == nil {
		return summary, errors.New("store is not initialized")
	}

	status, err := activity.GetStatus()
	if err != nil {
		return summary, fmt.Errorf("failed to get store status: %w", err)
	}
	if !status.Connected {
		return summary, ErrNoBackend
	}
	if status.TotalDays == 0 && status.TableSizes[archetypesTable] == 0 && status.TableSizes[predictionsTable] == 0 {
		return summary, errors.New("no data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	aggregates, err := activity.GetAllDailyAggregates()
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve daily aggregates: %w", err)
	}
	aggregatesFile := outputFile + ".daily_aggregates.parquet"
	if err := parquet.WriteDailyAggregatesParquet(parquet.ConvertDailyAggregates(aggregates), aggregatesFile); err != nil {
		return summary, fmt.Errorf("failed to write daily aggregates: %w", err)
	}
	summary.Files[aggregatesFile] = len(aggregates)
	_, _ = fmt.Fprintf(w, "Exported %d daily aggregates to: %s\n", len(aggregates), aggregatesFile)

	assignments, err := insight.GetAllArchetypeAssignments()
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve archetype assignments: %w", err)
	}
	assignmentsFile := outputFile + ".archetype_assignments.parquet"
	if err := parquet.WriteArchetypeAssignmentsParquet(parquet.ConvertArchetypeAssignments(assignments), assignmentsFile); err != nil {
		return summary, fmt.Errorf("failed to write archetype assignments: %w", err)
	}
	summary.Files[assignmentsFile] = len(assignments)
	_, _ = fmt.Fprintf(w, "Exported %d archetype assignments to: %s\n", len(assignments), assignmentsFile)

	predictions, err := insight.GetAllBurnoutPredictions()
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve burnout predictions: %w", err)
	}
	predictionsFile := outputFile + ".burnout_predictions.parquet"
	if err := parquet.WriteBurnoutPredictionsParquet(parquet.ConvertBurnoutPredictions(predictions), predictionsFile); err != nil {
		return summary, fmt.Errorf("failed to write burnout predictions: %w", err)
	}
	summary.Files[predictionsFile] = len(predictions)
	_, _ = fmt.Fprintf(w, "Exported %d burnout predictions to: %s\n", len(predictions), predictionsFile)

	return summary, nil
}
