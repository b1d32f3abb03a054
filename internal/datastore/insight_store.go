package datastore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/devflow/devflow/schema"
	"github.com/google/uuid"
)

const assignmentColumns = `id, user_login, archetype_key, confidence_score, trigger_metrics, scores, assigned_at, valid_until`

const predictionColumns = `id, user_login, risk_score, risk_level, factors, recommendations, days_analyzed, predicted_at`

// SupersedeAndInsert stamps the user's current assignment with next.AssignedAt
// and inserts next, in one transaction. The unique index on current rows
// rejects a second concurrent insert.
func (s *Store) SupersedeAndInsert(next schema.ArchetypeAssignment) (*schema.ArchetypeAssignment, error) {
	if s.disabled() {
		return nil, nil
	}
	if next.UserLogin == "" {
		return nil, errors.New("archetype assignment has no user login")
	}
	if next.ID == "" {
		next.ID = uuid.NewString()
	}

	metrics, err := marshalJSON(next.TriggerMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger metrics: %w", err)
	}
	scores, err := marshalJSON(next.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archetype scores: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lock := ""
	if s.backend != schema.SQLiteBackend {
		lock = " FOR UPDATE"
	}
	current := fmt.Sprintf(`SELECT %s FROM %s WHERE user_login = ? AND valid_until IS NULL%s`,
		assignmentColumns, s.table(archetypesTable), lock)

	prev, err := scanAssignment(tx.QueryRow(s.rebind(current), next.UserLogin))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		prev = nil
	case err != nil:
		return nil, err
	}

	if prev != nil {
		update := fmt.Sprintf(`UPDATE %s SET valid_until = ? WHERE id = ? AND valid_until IS NULL`, s.table(archetypesTable))
		res, err := tx.Exec(s.rebind(update), formatTime(next.AssignedAt, s.backend), prev.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to supersede archetype %s: %w", prev.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, fmt.Errorf("failed to read affected rows: %w", err)
		} else if n != 1 {
			return nil, ErrConcurrentSupersede
		}
		validUntil := next.AssignedAt.UTC().Truncate(timeResolution)
		prev.ValidUntil = &validUntil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`, s.table(archetypesTable), assignmentColumns)
	if _, err := tx.Exec(s.rebind(insert),
		next.ID, next.UserLogin, string(next.ArchetypeKey), next.ConfidenceScore,
		metrics, scores, formatTime(next.AssignedAt, s.backend),
	); err != nil {
		return nil, fmt.Errorf("failed to insert archetype assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit archetype supersede: %w", err)
	}
	return prev, nil
}

// GetCurrentArchetype returns the assignment with no end of validity, or nil.
func (s *Store) GetCurrentArchetype(user string) (*schema.ArchetypeAssignment, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_login = ? AND valid_until IS NULL`, assignmentColumns, s.table(archetypesTable))
	rec, err := scanAssignment(s.db.QueryRow(s.rebind(query), user))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// ListArchetypeHistory returns every assignment for user, newest first.
func (s *Store) ListArchetypeHistory(user string) ([]schema.ArchetypeAssignment, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_login = ? ORDER BY assigned_at DESC, id DESC`, assignmentColumns, s.table(archetypesTable))
	rows, err := s.db.Query(s.rebind(query), user)
	if err != nil {
		return nil, fmt.Errorf("failed to query archetype history: %w", err)
	}
	return collectAssignments(rows)
}

// GetAllArchetypeAssignments returns every assignment of every user.
func (s *Store) GetAllArchetypeAssignments() ([]schema.ArchetypeAssignment, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY user_login, assigned_at`, assignmentColumns, s.table(archetypesTable))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query archetype assignments: %w", err)
	}
	return collectAssignments(rows)
}

func collectAssignments(rows *sql.Rows) ([]schema.ArchetypeAssignment, error) {
	defer func() { _ = rows.Close() }()

	var results []schema.ArchetypeAssignment
	for rows.Next() {
		rec, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archetype assignments: %w", err)
	}
	return results, nil
}

// scanAssignment scans one assignment row. sql.ErrNoRows is returned unwrapped.
func scanAssignment(row rowScanner) (*schema.ArchetypeAssignment, error) {
	var rec schema.ArchetypeAssignment
	var key, metrics, scores string
	var assigned, validUntil timeColumn
	err := row.Scan(&rec.ID, &rec.UserLogin, &key, &rec.ConfidenceScore, &metrics, &scores, &assigned, &validUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan archetype assignment: %w", err)
	}

	rec.ArchetypeKey = schema.ArchetypeKey(key)
	rec.AssignedAt = assigned.Time
	rec.ValidUntil = validUntil.ptr()
	if err := unmarshalJSON(metrics, &rec.TriggerMetrics); err != nil {
		return nil, fmt.Errorf("failed to decode trigger metrics: %w", err)
	}
	if err := unmarshalJSON(scores, &rec.Scores); err != nil {
		return nil, fmt.Errorf("failed to decode archetype scores: %w", err)
	}
	return &rec, nil
}

// RecordBurnoutPrediction appends a burnout assessment to the audit trail.
func (s *Store) RecordBurnoutPrediction(rec schema.BurnoutPredictionRecord) error {
	if s.disabled() {
		return nil
	}
	if rec.UserLogin == "" {
		return errors.New("burnout prediction has no user login")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Recommendations == nil {
		rec.Recommendations = []schema.Recommendation{}
	}

	factors, err := marshalJSON(rec.Factors)
	if err != nil {
		return fmt.Errorf("failed to marshal burnout factors: %w", err)
	}
	recs, err := marshalJSON(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table(predictionsTable), predictionColumns)
	_, err = s.db.Exec(s.rebind(query),
		rec.ID, rec.UserLogin, rec.RiskScore, string(rec.RiskLevel),
		factors, recs, rec.DaysAnalyzed, formatTime(rec.PredictedAt, s.backend),
	)
	if err != nil {
		return fmt.Errorf("failed to insert burnout prediction: %w", err)
	}
	return nil
}

// ListBurnoutPredictions returns up to limit predictions for user, newest first.
func (s *Store) ListBurnoutPredictions(user string, limit int) ([]schema.BurnoutPredictionRecord, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	if limit <= 0 {
		limit = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_login = ? ORDER BY predicted_at DESC, id DESC LIMIT %d`,
		predictionColumns, s.table(predictionsTable), limit)
	rows, err := s.db.Query(s.rebind(query), user)
	if err != nil {
		return nil, fmt.Errorf("failed to query burnout predictions: %w", err)
	}
	return collectPredictions(rows)
}

// GetAllBurnoutPredictions returns every recorded prediction.
func (s *Store) GetAllBurnoutPredictions() ([]schema.BurnoutPredictionRecord, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY user_login, predicted_at`, predictionColumns, s.table(predictionsTable))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query burnout predictions: %w", err)
	}
	return collectPredictions(rows)
}

func collectPredictions(rows *sql.Rows) ([]schema.BurnoutPredictionRecord, error) {
	defer func() { _ = rows.Close() }()

	var results []schema.BurnoutPredictionRecord
	for rows.Next() {
		var rec schema.BurnoutPredictionRecord
		var level, factors, recs string
		var predicted timeColumn
		if err := rows.Scan(&rec.ID, &rec.UserLogin, &rec.RiskScore, &level, &factors, &recs, &rec.DaysAnalyzed, &predicted); err != nil {
			return nil, fmt.Errorf("failed to scan burnout prediction: %w", err)
		}
		rec.RiskLevel = schema.RiskLevel(level)
		rec.PredictedAt = predicted.Time
		if err := unmarshalJSON(factors, &rec.Factors); err != nil {
			return nil, fmt.Errorf("failed to decode burnout factors: %w", err)
		}
		if err := unmarshalJSON(recs, &rec.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating burnout predictions: %w", err)
	}
	return results, nil
}
