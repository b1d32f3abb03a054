package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devflow/devflow/schema"
)

// aggregateColumns is the column order shared by inserts and selects.
var aggregateColumns = []string{
	"user_login", "activity_date", "total_commits", "prs_opened", "prs_merged",
	"issues_closed", "code_reviews", "lines_added", "lines_deleted",
	"commits_by_hour", "languages", "repositories", "active_hours",
	"coding_duration_minutes", "is_weekend", "productivity_score",
}

// UpsertDailyAggregate writes one (user, date) row. A row for a day before
// today is only replaced when recompute is set; otherwise an existing row wins.
func (s *Store) UpsertDailyAggregate(agg schema.DailyAggregate, today time.Time, recompute bool) (bool, error) {
	if s.disabled() {
		return false, nil
	}
	if agg.UserLogin == "" {
		return false, errors.New("daily aggregate has no user login")
	}

	byHour, err := marshalJSON(agg.CommitsByHour)
	if err != nil {
		return false, fmt.Errorf("failed to marshal commits by hour: %w", err)
	}
	languages, err := marshalJSON(agg.Languages)
	if err != nil {
		return false, fmt.Errorf("failed to marshal languages: %w", err)
	}
	repos, err := marshalJSON(agg.Repositories)
	if err != nil {
		return false, fmt.Errorf("failed to marshal repositories: %w", err)
	}

	args := []any{
		agg.UserLogin, formatDay(agg.Date), agg.TotalCommits, agg.PRsOpened, agg.PRsMerged,
		agg.IssuesClosed, agg.CodeReviews, agg.LinesAdded, agg.LinesDeleted,
		byHour, languages, repos, agg.ActiveHours,
		agg.CodingDurationMinutes, agg.IsWeekend, agg.ProductivityScore,
	}

	overwrite := recompute || !agg.Date.Before(today)
	res, err := s.db.Exec(s.rebind(s.aggregateInsertQuery(overwrite)), args...)
	if err != nil {
		return false, fmt.Errorf("failed to upsert daily aggregate for %s on %s: %w", agg.UserLogin, formatDay(agg.Date), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// aggregateInsertQuery builds the insert for the backend. With overwrite the
// row replaces an existing one; without it the existing row is kept.
func (s *Store) aggregateInsertQuery(overwrite bool) string {
	cols := strings.Join(aggregateColumns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(aggregateColumns)), ", ")
	table := s.table(aggregatesTable)

	updatable := aggregateColumns[2:]
	sets := make([]string, 0, len(updatable))

	switch s.backend {
	case schema.MySQLBackend:
		if !overwrite {
			return fmt.Sprintf(`INSERT IGNORE INTO %s (%s) VALUES (%s)`, table, cols, placeholders)
		}
		for _, c := range updatable {
			sets = append(sets, fmt.Sprintf("%s = new.%s", c, c))
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE %s`, table, cols, placeholders, strings.Join(sets, ", "))

	default: // SQLite and PostgreSQL
		if !overwrite {
			return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
				ON CONFLICT (user_login, activity_date) DO NOTHING`, table, cols, placeholders)
		}
		for _, c := range updatable {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (user_login, activity_date) DO UPDATE SET %s`, table, cols, placeholders, strings.Join(sets, ", "))
	}
}

// GetDailyAggregates returns the user's rows with from <= date <= to, oldest first.
func (s *Store) GetDailyAggregates(user string, from, to time.Time) ([]schema.DailyAggregate, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE user_login = ? AND activity_date >= ? AND activity_date <= ?
		ORDER BY activity_date`, strings.Join(aggregateColumns, ", "), s.table(aggregatesTable))

	rows, err := s.db.Query(s.rebind(query), user, formatDay(from), formatDay(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily aggregates: %w", err)
	}
	return collectAggregates(rows)
}

// GetAllDailyAggregates returns every stored row, ordered by user and date.
func (s *Store) GetAllDailyAggregates() ([]schema.DailyAggregate, error) {
	if s.disabled() {
		return nil, ErrNoBackend
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY user_login, activity_date`,
		strings.Join(aggregateColumns, ", "), s.table(aggregatesTable))

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily aggregates: %w", err)
	}
	return collectAggregates(rows)
}

// collectAggregates drains rows into aggregates and closes them.
func collectAggregates(rows *sql.Rows) ([]schema.DailyAggregate, error) {
	defer func() { _ = rows.Close() }()

	var results []schema.DailyAggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily aggregates: %w", err)
	}
	return results, nil
}

func scanAggregate(row rowScanner) (schema.DailyAggregate, error) {
	var agg schema.DailyAggregate
	var day, byHour, languages, repos string
	if err := row.Scan(
		&agg.UserLogin, &day, &agg.TotalCommits, &agg.PRsOpened, &agg.PRsMerged,
		&agg.IssuesClosed, &agg.CodeReviews, &agg.LinesAdded, &agg.LinesDeleted,
		&byHour, &languages, &repos, &agg.ActiveHours,
		&agg.CodingDurationMinutes, &agg.IsWeekend, &agg.ProductivityScore,
	); err != nil {
		return agg, fmt.Errorf("failed to scan daily aggregate: %w", err)
	}

	var err error
	if agg.Date, err = parseDay(day); err != nil {
		return agg, err
	}
	if err := unmarshalJSON(byHour, &agg.CommitsByHour); err != nil {
		return agg, fmt.Errorf("failed to decode commits by hour: %w", err)
	}
	if err := unmarshalJSON(languages, &agg.Languages); err != nil {
		return agg, fmt.Errorf("failed to decode languages: %w", err)
	}
	if err := unmarshalJSON(repos, &agg.Repositories); err != nil {
		return agg, fmt.Errorf("failed to decode repositories: %w", err)
	}
	return agg, nil
}

// GetUser returns the cached user row and whether it exists.
func (s *Store) GetUser(login string) (schema.UserRecord, bool, error) {
	rec := schema.UserRecord{Login: login}
	if s.disabled() {
		return rec, false, ErrNoBackend
	}

	query := fmt.Sprintf(`SELECT timezone, current_streak, longest_streak, updated_at FROM %s WHERE login = ?`, s.table(usersTable))
	var updated timeColumn
	err := s.db.QueryRow(s.rebind(query), login).Scan(&rec.Timezone, &rec.CurrentStreak, &rec.LongestStreak, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("failed to get user %s: %w", login, err)
	}
	rec.UpdatedAt = updated.Time
	return rec, true, nil
}

// UpsertUser refreshes the cached user row.
func (s *Store) UpsertUser(rec schema.UserRecord) error {
	if s.disabled() {
		return nil
	}
	if rec.Login == "" {
		return errors.New("user record has no login")
	}
	if rec.Timezone == "" {
		rec.Timezone = "UTC"
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	table := s.table(usersTable)
	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (login, timezone, current_streak, longest_streak, updated_at) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE timezone = new.timezone, current_streak = new.current_streak,
			longest_streak = new.longest_streak, updated_at = new.updated_at`, table)
	default: // SQLite and PostgreSQL
		query = fmt.Sprintf(`INSERT INTO %s (login, timezone, current_streak, longest_streak, updated_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (login) DO UPDATE SET timezone = excluded.timezone, current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak, updated_at = excluded.updated_at`, table)
	}

	_, err := s.db.Exec(s.rebind(query), rec.Login, rec.Timezone, rec.CurrentStreak, rec.LongestStreak, formatTime(rec.UpdatedAt, s.backend))
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", rec.Login, err)
	}
	return nil
}

// GetStatus returns status information about the store.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	for _, table := range allTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.Users = status.TableSizes[usersTable]
	status.TotalDays = status.TableSizes[aggregatesTable]

	if status.TotalDays > 0 {
		var oldest, latest string
		query := fmt.Sprintf("SELECT MIN(activity_date), MAX(activity_date) FROM %s", s.table(aggregatesTable))
		if err := s.db.QueryRow(query).Scan(&oldest, &latest); err != nil {
			return status, fmt.Errorf("failed to get date range: %w", err)
		}
		var err error
		if status.OldestDay, err = parseDay(oldest); err != nil {
			return status, err
		}
		if status.LatestDay, err = parseDay(latest); err != nil {
			return status, err
		}
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE valid_until IS NULL", s.table(archetypesTable))
	if err := s.db.QueryRow(query).Scan(&status.CurrentRecords); err != nil {
		return status, fmt.Errorf("failed to count current archetypes: %w", err)
	}

	return status, nil
}
