package cmd

import (
	"github.com/devflow/devflow/core"
	"github.com/devflow/devflow/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd computes the productivity score.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the 0-100 productivity score for the window.",
	Long: `Compute the productivity score from commits, merged and opened PRs,
closed issues, code reviews and lines changed over the window.

Each component is capped, summed and scaled by a consistency multiplier that
rewards working on more distinct days.

Examples:
  # Score the last 30 days
  devflow score --user octocat

  # Score the last week as JSON
  devflow score --user octocat --window 7 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute productivity score", err)
		}
	},
}

// streakCmd shows the commit streaks.
var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest daily commit streak.",
	Long: `Compute commit streaks over the user's whole stored history.

The current streak survives until the end of the day after the last commit,
so a streak is not broken just because today has no commits yet.

Examples:
  devflow streak --user octocat
  devflow streak --user octocat --as-of 2024-03-14`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStreak(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute streak", err)
		}
	},
}

// burnoutCmd assesses burnout risk.
var burnoutCmd = &cobra.Command{
	Use:   "burnout",
	Short: "Assess burnout risk from recent working patterns.",
	Long: `Score six burnout factors over the window: long hours, weekend work,
late-night commits, days without a break, declining output and inconsistency.

At least seven days of data are needed. Use --record to keep the assessment in
the prediction history.

Examples:
  devflow burnout --user octocat
  devflow burnout --user octocat --window 60 --record`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBurnout(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot assess burnout risk", err)
		}
	},
}

// archetypeCmd reveals the developer archetype.
var archetypeCmd = &cobra.Command{
	Use:   "archetype",
	Short: "Reveal the developer archetype for the last two weeks.",
	Long: `Classify the last 14 days of activity into one of eight archetypes.

The new assignment supersedes the previous one; the full history is kept.
At least five days of data are needed before an archetype is revealed.

Examples:
  devflow archetype --user octocat
  devflow archetype history --user octocat`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteArchetype(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot reveal archetype", err)
		}
	},
}

// archetypeHistoryCmd lists past assignments.
var archetypeHistoryCmd = &cobra.Command{
	Use:     "history",
	Short:   "List every past archetype assignment, newest first.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteArchetypeHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list archetype history", err)
		}
	},
}

// reportCmd prints the full dashboard.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show every metric in one report.",
	Long: `Print the productivity score, streaks, code volume, commit hours and
weekdays, languages, top repositories, a contribution heatmap and the burnout
risk in one pass.

Examples:
  devflow report --user octocat
  devflow report --user octocat --weeks 26 --limit 5
  devflow report --user octocat --output csv --output-file report.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build activity report", err)
		}
	},
}
