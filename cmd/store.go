package cmd

import (
	"fmt"
	"os"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/datastore"
	"github.com/devflow/devflow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendConfig reads and validates the store flags without the full
// analysis setup, so maintenance works without a user or GitHub settings.
func storeBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup opens the configured store for maintenance commands.
func storeSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	if err := datastore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeMigrateSetup resolves the backend without opening the store, so
// migrations can run against a fresh or partially migrated database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeCmd focused on store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the activity store",
	Long: `Manage the database that holds daily aggregates, cached streaks, the
archetype history and recorded burnout predictions.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show row counts and connection details
  export  - Export every table to Parquet
  clear   - Remove all stored data
  migrate - Run database schema migrations`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := datastore.Manager.GetActivityStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		datastore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored activity and insight data",
	Long: `Delete every daily aggregate, user row, archetype assignment and burnout prediction.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Rolls every migration back

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  devflow store export --output-file backup
  devflow store clear`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// storeMigrateSetup resolved an empty SQLite connection to the default file
		if err := datastore.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data to Parquet for BI tools and analytics",
	Long: `Export every table to Parquet files named after --output-file:

  <output-file>.daily_aggregates.parquet
  <output-file>.archetype_assignments.parquet
  <output-file>.burnout_predictions.parquet

Examples:
  devflow store export --output-file devflow
  duckdb -c "SELECT * FROM read_parquet('devflow.daily_aggregates.parquet') LIMIT 10"`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := datastore.ExecuteStoreExport(datastore.Manager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  devflow store migrate

  # Rollback to initial state
  devflow store migrate --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := datastore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations applied successfully.")
	},
}
