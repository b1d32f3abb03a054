package contract

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/devflow/devflow/schema"
)

// Default values for configuration.
const (
	DefaultWindowDays   = 30
	MaxWindowDays       = 366
	DefaultResultLimit  = 10
	MaxResultLimit      = 1000
	DefaultHeatmapWeeks = 12
	MaxHeatmapWeeks     = 53
	DefaultPrecision    = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateFormat is the civil date representation used for --as-of and output.
const DateFormat = time.DateOnly

// loginRe matches a GitHub login.
var loginRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// repoRe matches an owner/name repository reference.
var repoRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}/[A-Za-z0-9._-]{1,100}$`)

// Config holds the runtime configuration for the analytics.
// This struct remains the "final, validated" config.
type Config struct {
	User     string
	Location *time.Location
	Today    time.Time // civil date in Location, as midnight UTC

	WindowDays   int
	ResultLimit  int
	HeatmapWeeks int
	Precision    int
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)
	UseColors    bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	GitHubToken string
	Repos       []string
	Workers     int

	Recompute bool
	Record    bool
	Verbose   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	User           string `mapstructure:"user"`
	Timezone       string `mapstructure:"timezone"`
	AsOf           string `mapstructure:"as-of"`
	Window         int    `mapstructure:"window"`
	Limit          int    `mapstructure:"limit"`
	Weeks          int    `mapstructure:"weeks"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Verbose        bool   `mapstructure:"verbose"`

	// --- Fields from ingestCmd.Flags() ---
	GitHubToken string `mapstructure:"github-token"`
	Repos       string `mapstructure:"repos"`
	Workers     int    `mapstructure:"workers"`
	Recompute   bool   `mapstructure:"recompute"`

	// --- Fields from burnoutCmd.Flags() ---
	Record bool `mapstructure:"record"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Repos != nil {
		clone.Repos = make([]string, len(c.Repos))
		copy(clone.Repos, c.Repos)
	}
	return &clone
}

// WindowStart returns the first civil date of a window of days ending today.
func (c *Config) WindowStart(days int) time.Time {
	if days < 1 {
		days = 1
	}
	return c.Today.AddDate(0, 0, -(days - 1))
}

// RequireUser returns an error when no user login is configured.
func (c *Config) RequireUser() error {
	if c.User == "" {
		return errors.New("a user login is required (--user or DEVFLOW_USER)")
	}
	return nil
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeSettings(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processSourceSettings(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return errors.New("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return errors.New("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return errors.New("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return errors.New("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.StoreBackend))
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Recompute = input.Recompute
	cfg.Record = input.Record
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. User Validation ---
	cfg.User = strings.TrimSpace(input.User)
	if cfg.User != "" && !loginRe.MatchString(cfg.User) {
		return fmt.Errorf("invalid user login '%s'", input.User)
	}

	// --- 2. Window and Limits ---
	if input.Window <= 0 || input.Window > MaxWindowDays {
		return fmt.Errorf("window must be greater than 0 and cannot exceed %d days (received %d)", MaxWindowDays, input.Window)
	}
	cfg.WindowDays = input.Window

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Weeks <= 0 || input.Weeks > MaxHeatmapWeeks {
		return fmt.Errorf("weeks must be greater than 0 and cannot exceed %d (received %d)", MaxHeatmapWeeks, input.Weeks)
	}
	cfg.HeatmapWeeks = input.Weeks

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	return nil
}

// processTimeSettings resolves the user's time zone and the as-of date.
func processTimeSettings(cfg *Config, input *ConfigRawInput, now time.Time) error {
	loc, err := LoadLocation(input.Timezone)
	if err != nil {
		return err
	}
	cfg.Location = loc

	today, err := ParseAsOf(input.AsOf, now, loc)
	if err != nil {
		return err
	}
	cfg.Today = today
	return nil
}

// processSourceSettings handles the ingestion source parameters.
func processSourceSettings(cfg *Config, input *ConfigRawInput) error {
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers
	cfg.GitHubToken = strings.TrimSpace(input.GitHubToken)

	repos, err := ParseRepoList(input.Repos)
	if err != nil {
		return err
	}
	cfg.Repos = repos
	return nil
}

// ParseRepoList parses a comma-separated list of owner/name references.
// Duplicates are dropped while keeping first-seen order.
func ParseRepoList(s string) ([]string, error) {
	var repos []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		repo := strings.TrimSpace(part)
		if repo == "" {
			continue
		}
		if !repoRe.MatchString(repo) {
			return nil, fmt.Errorf("invalid repository '%s'. expected owner/name", repo)
		}
		key := strings.ToLower(repo)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		repos = append(repos, repo)
	}
	return repos, nil
}

// RevalidateOverrides applies per-request overrides (from MCP tool calls) on top
// of an already validated config. Zero values keep the configured setting.
func RevalidateOverrides(cfg *Config, user string, window, limit, weeks int) error {
	if user = strings.TrimSpace(user); user != "" {
		if !loginRe.MatchString(user) {
			return fmt.Errorf("invalid user login '%s'", user)
		}
		cfg.User = user
	}
	if window != 0 {
		if window < 0 || window > MaxWindowDays {
			return fmt.Errorf("window must be greater than 0 and cannot exceed %d days (received %d)", MaxWindowDays, window)
		}
		cfg.WindowDays = window
	}
	if limit != 0 {
		if limit < 0 || limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, limit)
		}
		cfg.ResultLimit = limit
	}
	if weeks != 0 {
		if weeks < 0 || weeks > MaxHeatmapWeeks {
			return fmt.Errorf("weeks must be greater than 0 and cannot exceed %d (received %d)", MaxHeatmapWeeks, weeks)
		}
		cfg.HeatmapWeeks = weeks
	}
	return cfg.RequireUser()
}
