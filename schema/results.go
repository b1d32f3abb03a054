package schema

import "time"

// ScoreResult is the productivity score with its per-component breakdown.
type ScoreResult struct {
	TotalScore            int                      `json:"total_score"`
	Breakdown             map[BreakdownKey]float64 `json:"breakdown"`
	ConsistencyMultiplier float64                  `json:"consistency_multiplier"`
	Stats                 ProductivityStats        `json:"stats"`
}

// StreakInfo holds the current and longest commit streaks.
type StreakInfo struct {
	Current        int        `json:"current"`
	Longest        int        `json:"longest"`
	LastCommitDate *time.Time `json:"last_commit_date"`
}

// HourBucket is the commit count for one hour of the day.
type HourBucket struct {
	Hour       int `json:"hour"`
	Commits    int `json:"commits"`
	Percentage int `json:"percentage"`
}

// CommitTimeDistribution is the time-of-day histogram.
// PeakHour is -1 when there are no commits.
type CommitTimeDistribution struct {
	Hours        []HourBucket `json:"hours"`
	PeakHour     int          `json:"peak_hour"`
	TotalCommits int          `json:"total_commits"`
}

// DayBucket is the activity for one weekday.
type DayBucket struct {
	Day        time.Weekday `json:"day"`
	Name       string       `json:"name"`
	Commits    int          `json:"commits"`
	ActiveDays int          `json:"active_days"`
	Percentage int          `json:"percentage"`
}

// DayOfWeekDistribution is the day-of-week histogram, Sunday first.
type DayOfWeekDistribution struct {
	Days          []DayBucket `json:"days"`
	MostActiveDay string      `json:"most_active_day"`
	TotalCommits  int         `json:"total_commits"`
}

// LanguageShare is one row of the language distribution.
type LanguageShare struct {
	Language   string `json:"language"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// RepositoryShare is one row of the top-repository ranking.
type RepositoryShare struct {
	Repository string `json:"repository"`
	Commits    int    `json:"commits"`
	Percentage int    `json:"percentage"`
}

// CodeVolume sums lines changed over a window.
type CodeVolume struct {
	LinesAdded          int     `json:"lines_added"`
	LinesDeleted        int     `json:"lines_deleted"`
	NetLines            int     `json:"net_lines"`
	TotalChanged        int     `json:"total_changed"`
	AvgChangedPerActive float64 `json:"avg_changed_per_active_day"`
}

// HeatmapCell is one calendar day of the contribution heatmap.
type HeatmapCell struct {
	Date    time.Time `json:"date"`
	Commits int       `json:"commits"`
	Level   int       `json:"level"`
}

// BurnoutFactors holds the six normalized burnout factors.
type BurnoutFactors struct {
	LongHours           float64 `json:"long_hours"`
	WeekendWork         float64 `json:"weekend_work"`
	LateNight           float64 `json:"late_night"`
	NoBreaks            float64 `json:"no_breaks"`
	ProductivityDecline float64 `json:"productivity_decline"`
	Inconsistency       float64 `json:"inconsistency"`
}

// AsMap returns the factors keyed by FactorKey.
func (f BurnoutFactors) AsMap() map[FactorKey]float64 {
	return map[FactorKey]float64{
		FactorLongHours:           f.LongHours,
		FactorWeekendWork:         f.WeekendWork,
		FactorLateNight:           f.LateNight,
		FactorNoBreaks:            f.NoBreaks,
		FactorProductivityDecline: f.ProductivityDecline,
		FactorInconsistency:       f.Inconsistency,
	}
}

// Recommendation is advice triggered by one burnout factor.
type Recommendation struct {
	Factor   FactorKey `json:"factor"`
	Priority Priority  `json:"priority"`
	Message  string    `json:"message"`
}

// BurnoutAssessment is the result of the burnout risk model.
type BurnoutAssessment struct {
	RiskScore       float64          `json:"risk_score"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	Factors         BurnoutFactors   `json:"factors"`
	Recommendations []Recommendation `json:"recommendations"`
	HasEnoughData   bool             `json:"has_enough_data"`
	Message         string           `json:"message,omitempty"`
	DaysAnalyzed    int              `json:"days_analyzed"`
}

// ArchetypeFeatures is the feature vector the archetype rules score against.
type ArchetypeFeatures struct {
	Records          int     `json:"records"`
	TotalCommits     int     `json:"total_commits"`
	TotalPRs         int     `json:"total_prs"`
	ActiveDays       int     `json:"active_days"`
	WeekendCommits   int     `json:"weekend_commits"`
	WeekdayCommits   int     `json:"weekday_commits"`
	WeekendRatio     float64 `json:"weekend_ratio"`
	LateNightCommits int     `json:"late_night_commits"`
	LateNightRatio   float64 `json:"late_night_ratio"`
	MaxDailyCommits  int     `json:"max_daily_commits"`
	AvgDailyCommits  float64 `json:"avg_daily_commits"`
	CommitVariance   float64 `json:"commit_variance"`
	AvgCodingHours   float64 `json:"avg_coding_hours"`
	PRRatio          float64 `json:"pr_ratio"`
	CurrentStreak    int     `json:"current_streak"`
}

// ArchetypeResult is the outcome of classification.
// When Insufficient is set no archetype was chosen and DaysUntilReveal says how
// many more days of data are needed.
type ArchetypeResult struct {
	Archetype       ArchetypeKey         `json:"archetype,omitempty"`
	ConfidenceScore float64              `json:"confidence_score"`
	WinningScore    int                  `json:"winning_score"`
	Fallback        bool                 `json:"fallback"`
	Scores          map[ArchetypeKey]int `json:"scores,omitempty"`
	Features        ArchetypeFeatures    `json:"trigger_metrics"`
	Insufficient    bool                 `json:"insufficient"`
	DaysUntilReveal int                  `json:"days_until_reveal,omitempty"`
}

// ArchetypeAssignment is a persisted archetype snapshot.
// ValidUntil is nil only for the current assignment.
type ArchetypeAssignment struct {
	ID              string               `json:"id"`
	UserLogin       string               `json:"user_login"`
	ArchetypeKey    ArchetypeKey         `json:"archetype_key"`
	ConfidenceScore float64              `json:"confidence_score"`
	TriggerMetrics  ArchetypeFeatures    `json:"trigger_metrics"`
	Scores          map[ArchetypeKey]int `json:"scores"`
	AssignedAt      time.Time            `json:"assigned_at"`
	ValidUntil      *time.Time           `json:"valid_until"`
}

// IsCurrent reports whether the assignment has not been superseded.
func (a ArchetypeAssignment) IsCurrent() bool {
	return a.ValidUntil == nil
}

// RevealResult is what an archetype reveal returns to callers.
type RevealResult struct {
	ArchetypeResult
	Assignment *ArchetypeAssignment `json:"assignment,omitempty"`
	Superseded *ArchetypeAssignment `json:"superseded,omitempty"`
}

// ActivityReport bundles every metric for one user and window.
type ActivityReport struct {
	UserLogin   string                 `json:"user_login"`
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Score       ScoreResult            `json:"score"`
	Streak      StreakInfo             `json:"streak"`
	CodeVolume  CodeVolume             `json:"code_volume"`
	CommitTimes CommitTimeDistribution `json:"commit_times"`
	DayOfWeek   DayOfWeekDistribution  `json:"day_of_week"`
	Languages   []LanguageShare        `json:"languages"`
	Repos       []RepositoryShare      `json:"repositories"`
	Heatmap     []HeatmapCell          `json:"heatmap"`
	Burnout     BurnoutAssessment      `json:"burnout"`
}
