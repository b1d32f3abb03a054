package schema

import "time"

// UserRecord caches user-level fields derived from the aggregates.
type UserRecord struct {
	Login         string    `json:"login"`
	Timezone      string    `json:"timezone"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BurnoutPredictionRecord is an audit row of a stored burnout assessment.
type BurnoutPredictionRecord struct {
	ID              string           `json:"id"`
	UserLogin       string           `json:"user_login"`
	RiskScore       float64          `json:"risk_score"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	Factors         BurnoutFactors   `json:"factors"`
	Recommendations []Recommendation `json:"recommendations"`
	DaysAnalyzed    int              `json:"days_analyzed"`
	PredictedAt     time.Time        `json:"predicted_at"`
}

// StoreStatus represents the status of the activity store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	Users          int64            `json:"users"`
	TotalDays      int64            `json:"total_days"`
	OldestDay      time.Time        `json:"oldest_day"`
	LatestDay      time.Time        `json:"latest_day"`
	CurrentRecords int64            `json:"current_archetypes"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}
