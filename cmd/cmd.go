// Package cmd defines the command-line interface for devflow.
package cmd

import (
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(burnoutCmd)
	rootCmd.AddCommand(archetypeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	archetypeCmd.AddCommand(archetypeHistoryCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("user", "u", "", "GitHub login to analyze")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone that defines the user's civil days, or 'local' for the host zone (default UTC)")
	rootCmd.PersistentFlags().String("as-of", "", "Analyze as of this date (YYYY-MM-DD or 'N days ago'); defaults to today")
	rootCmd.PersistentFlags().IntP("window", "w", contract.DefaultWindowDays, "Number of days to analyze, ending today")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("weeks", contract.DefaultHeatmapWeeks, "Number of weeks in the heatmap")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of ingestCmd to Viper
	ingestCmd.Flags().String("github-token", "", "GitHub token (prefer DEVFLOW_GITHUB_TOKEN)")
	ingestCmd.Flags().String("repos", "", "Comma-separated list of owner/name repositories")
	ingestCmd.Flags().Int("workers", contract.DefaultWorkers, "Number of repositories fetched concurrently")
	ingestCmd.Flags().Bool("recompute", false, "Overwrite past days that are already stored")
	if err := viper.BindPFlags(ingestCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ingest flags", err)
	}

	// Bind all flags of burnoutCmd to Viper
	burnoutCmd.Flags().Bool("record", false, "Append the assessment to the burnout prediction history")
	if err := viper.BindPFlags(burnoutCmd.Flags()); err != nil {
		contract.LogFatal("Error binding burnout flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
