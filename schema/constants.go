package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in productivity score breakdowns.
	BreakdownKey string

	// FactorKey names one of the burnout risk factors.
	FactorKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the activity store.
	DatabaseBackend string

	// RiskLevel is the discrete tier of a burnout risk score.
	RiskLevel string

	// ArchetypeKey identifies one of the fixed developer archetypes.
	ArchetypeKey string

	// Priority ranks a burnout recommendation.
	Priority string

	// EventKind is the type of a raw activity event pulled from a source.
	EventKind string
)

// Breakdown keys used in the productivity score.
const (
	BreakdownCommits      BreakdownKey = "commits"
	BreakdownPRsMerged    BreakdownKey = "prs_merged"
	BreakdownPRsOpened    BreakdownKey = "prs_opened"
	BreakdownIssuesClosed BreakdownKey = "issues_closed"
	BreakdownReviews      BreakdownKey = "reviews"
	BreakdownLines        BreakdownKey = "lines_changed"
)

// Burnout factor keys.
const (
	FactorLongHours           FactorKey = "long_hours"
	FactorWeekendWork         FactorKey = "weekend_work"
	FactorLateNight           FactorKey = "late_night"
	FactorNoBreaks            FactorKey = "no_breaks"
	FactorProductivityDecline FactorKey = "productivity_decline"
	FactorInconsistency       FactorKey = "inconsistency"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Burnout risk tiers.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Developer archetypes. Declaration order is also the tie-break order.
const (
	TutorialAddict     ArchetypeKey = "tutorial_addict"
	ChaosCoder         ArchetypeKey = "chaos_coder"
	BurnoutSprinter    ArchetypeKey = "burnout_sprinter"
	SilentBuilder      ArchetypeKey = "silent_builder"
	MomentumMachine    ArchetypeKey = "momentum_machine"
	ConsistentOperator ArchetypeKey = "consistent_operator"
	OvernightArchitect ArchetypeKey = "overnight_architect"
	WeekendWarrior     ArchetypeKey = "weekend_warrior"
)

// Recommendation priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Raw activity event kinds.
const (
	CommitEvent      EventKind = "commit"
	PROpenedEvent    EventKind = "pr_opened"
	PRMergedEvent    EventKind = "pr_merged"
	IssueClosedEvent EventKind = "issue_closed"
	ReviewEvent      EventKind = "review"
)

// AllBreakdownKeys lists the productivity score components in formula order.
var AllBreakdownKeys = []BreakdownKey{
	BreakdownCommits,
	BreakdownPRsMerged,
	BreakdownPRsOpened,
	BreakdownIssuesClosed,
	BreakdownReviews,
	BreakdownLines,
}

// AllArchetypes lists every archetype in declaration order.
var AllArchetypes = []ArchetypeKey{
	TutorialAddict,
	ChaosCoder,
	BurnoutSprinter,
	SilentBuilder,
	MomentumMachine,
	ConsistentOperator,
	OvernightArchitect,
	WeekendWarrior,
}

// AllFactors lists the burnout factors in weight-table order.
var AllFactors = []FactorKey{
	FactorLongHours,
	FactorWeekendWork,
	FactorLateNight,
	FactorNoBreaks,
	FactorProductivityDecline,
	FactorInconsistency,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidArchetypes lists all valid archetype keys.
var ValidArchetypes = map[ArchetypeKey]struct{}{
	TutorialAddict:     {},
	ChaosCoder:         {},
	BurnoutSprinter:    {},
	SilentBuilder:      {},
	MomentumMachine:    {},
	ConsistentOperator: {},
	OvernightArchitect: {},
	WeekendWarrior:     {},
}

// BurnoutWeights is the fixed weight of each factor in the risk score.
var BurnoutWeights = map[FactorKey]float64{
	FactorLongHours:           0.25,
	FactorWeekendWork:         0.15,
	FactorLateNight:           0.20,
	FactorNoBreaks:            0.20,
	FactorProductivityDecline: 0.15,
	FactorInconsistency:       0.05,
}

// ArchetypeTitles maps each archetype to its display name.
var ArchetypeTitles = map[ArchetypeKey]string{
	TutorialAddict:     "Tutorial Addict",
	ChaosCoder:         "Chaos Coder",
	BurnoutSprinter:    "Burnout Sprinter",
	SilentBuilder:      "Silent Builder",
	MomentumMachine:    "Momentum Machine",
	ConsistentOperator: "Consistent Operator",
	OvernightArchitect: "Overnight Architect",
	WeekendWarrior:     "Weekend Warrior",
}
