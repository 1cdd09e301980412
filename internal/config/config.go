// =============================================================================
// SuperSlice ETL - Configuration Module
// =============================================================================
//
// This module loads the single YAML configuration file that drives a run:
// where exports are dropped, how files are classified, where they go
// afterwards, the database to write to and per-platform parsing rules.
//
// LOAD ORDER:
//   1. Read and parse the YAML file
//   2. Apply environment overrides (secrets stay out of the file)
//   3. Apply defaults for anything left empty
//   4. Validate
//
// ENVIRONMENT OVERRIDES:
//   SLICETL_DATABASE_DSN     database.dsn (DATABASE_URL is also accepted)
//   SLICETL_DATABASE_DRIVER  database.driver
//   SLICETL_LOG_LEVEL        logging.level
//   SLICETL_RAW_CSV_DIR      raw_csv_dir
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/bwilly/SuperSliceETL/internal/platform"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// RawCSVDir holds one subdirectory per platform (slice/, square/, uber/).
	// Default: "./raw_csv"
	RawCSVDir string `yaml:"raw_csv_dir"`

	// FileRegex selects which files inside the platform directories are
	// picked up.
	// Default: "(?i)\.(csv|xlsx)$"
	FileRegex string `yaml:"file_regex"`

	// FileTypeRegexes classify a file as trax or itemz.
	FileTypeRegexes FileTypeRegexes `yaml:"file_type_regexes"`

	// ArchivePath receives files that completed.
	// Default: "./archive"
	ArchivePath string `yaml:"archive_path"`

	// FailedPath receives files that aborted.
	// Default: "./failed"
	FailedPath string `yaml:"failed_path"`

	// ArchiveByDate places moved files under YYYY/MM/DD subdirectories.
	ArchiveByDate bool `yaml:"archive_by_date"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// DryRun leaves source files in place after processing.
	DryRun bool `yaml:"dry_run"`

	// MaxConcurrency is the number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// RowConcurrency is the number of rows persisted at once per file.
	// Default: 8
	RowConcurrency int `yaml:"row_concurrency"`

	// EmptyRun decides what a run that finds no files does:
	// "ignore" (default), "warn", or "error".
	EmptyRun string `yaml:"empty_run"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ReportDir receives a plain-text run report when set.
	ReportDir string `yaml:"report_dir"`

	// MetricsTextfile receives Prometheus metrics in text format when set.
	MetricsTextfile string `yaml:"metrics_textfile"`

	Database  DatabaseConfig            `yaml:"database"`
	Logging   LoggingConfig             `yaml:"logging"`
	Platforms map[string]PlatformConfig `yaml:"platforms"`
}

// FileTypeRegexes holds the record-kind patterns.
type FileTypeRegexes struct {
	// Default: "trax|transactions"
	Trax string `yaml:"trax"`

	// Default: "itemz|items"
	Itemz string `yaml:"itemz"`
}

// DatabaseConfig selects and sizes the database connection pool.
type DatabaseConfig struct {
	// Driver is "postgres", "mysql" or "sqlite".
	// Default: "postgres"
	Driver string `yaml:"driver"`

	// DSN is the driver-specific connection string.
	DSN string `yaml:"dsn"`

	MaxIdle            int `yaml:"max_idle"`
	MaxOpen            int `yaml:"max_open"`
	MaxLifetimeSeconds int `yaml:"max_lifetime_seconds"`

	// AutoMigrate creates missing tables before processing.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// MaxLifetime returns the connection lifetime as a duration.
func (d DatabaseConfig) MaxLifetime() time.Duration {
	return time.Duration(d.MaxLifetimeSeconds) * time.Second
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "console".
	// Default: "json"
	Format string `yaml:"format"`

	// File, when set, receives logs in addition to stdout and is rotated.
	File string `yaml:"file"`

	// MaxAgeDays is how long rotated files are kept. 0 keeps them forever.
	MaxAgeDays int `yaml:"max_age_days"`

	// MaxSizeMB is the size at which the file is rotated.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`
}

// PlatformConfig overrides one platform's parsing rules. Empty fields fall
// back to built-in defaults.
type PlatformConfig struct {
	// ExpectedHeaders is the header contract. Raw or normalized spellings
	// are both accepted.
	ExpectedHeaders []string `yaml:"expected_headers"`

	// WriteIsolated controls writes to the platform's own table.
	// Default: true
	WriteIsolated *bool `yaml:"write_isolated"`

	// TimestampLayouts are Go reference layouts tried before generic parsing.
	TimestampLayouts []string `yaml:"timestamp_layouts"`

	// Timezone is an IANA zone for timestamps without one.
	// Default: "UTC"
	Timezone string `yaml:"timezone"`

	// TruthyValues are the flag values read as true.
	// Default: ["1", "true"]
	TruthyValues []string `yaml:"truthy_values"`

	// Delimiter is the CSV field separator. Default: ","
	Delimiter string `yaml:"delimiter"`

	// Sheet is the worksheet read from .xlsx exports. Default: first sheet.
	Sheet string `yaml:"sheet"`
}

// IsolatedEnabled reports whether isolated writes are on.
func (p PlatformConfig) IsolatedEnabled() bool {
	return p.WriteIsolated == nil || *p.WriteIsolated
}

// Location resolves Timezone.
func (p PlatformConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(p.Timezone)
}

// Platform returns the settings for p, or the zero value.
func (c *Config) Platform(p platform.Platform) PlatformConfig {
	return c.Platforms[p.String()]
}

// =============================================================================
// LOADING
// =============================================================================

// Empty-run policies.
const (
	EmptyRunIgnore = "ignore"
	EmptyRunWarn   = "warn"
	EmptyRunError  = "error"
)

// Load reads and validates the configuration file.
//
// PARAMETERS:
//   - path: The path to the YAML file.
//
// RETURNS:
//   - The loaded configuration.
//   - An error if the file cannot be read, parsed, or fails validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv copies environment overrides into the configuration.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SLICETL_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SLICETL_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SLICETL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SLICETL_RAW_CSV_DIR"); v != "" {
		cfg.RawCSVDir = v
	}
}

// applyDefaults sets default values for anything left empty.
func applyDefaults(cfg *Config) {
	if cfg.RawCSVDir == "" {
		cfg.RawCSVDir = "./raw_csv"
	}
	if cfg.FileRegex == "" {
		cfg.FileRegex = `(?i)\.(csv|xlsx)$`
	}
	if cfg.FileTypeRegexes.Trax == "" {
		cfg.FileTypeRegexes.Trax = "trax|transactions"
	}
	if cfg.FileTypeRegexes.Itemz == "" {
		cfg.FileTypeRegexes.Itemz = "itemz|items"
	}
	if cfg.ArchivePath == "" {
		cfg.ArchivePath = "./archive"
	}
	if cfg.FailedPath == "" {
		cfg.FailedPath = "./failed"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.RowConcurrency == 0 {
		cfg.RowConcurrency = 8
	}
	if cfg.EmptyRun == "" {
		cfg.EmptyRun = EmptyRunIgnore
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.MaxIdle == 0 {
		cfg.Database.MaxIdle = 2
	}
	if cfg.Database.MaxOpen == 0 {
		cfg.Database.MaxOpen = 10
	}
	if cfg.Database.MaxLifetimeSeconds == 0 {
		cfg.Database.MaxLifetimeSeconds = 300
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 100
	}

	if cfg.Platforms == nil {
		cfg.Platforms = make(map[string]PlatformConfig)
	}
}

// validate checks the configuration for values that would fail later.
func validate(cfg *Config) error {
	var errs []error

	if _, err := regexp.Compile(cfg.FileRegex); err != nil {
		errs = append(errs, fmt.Errorf("file_regex: %w", err))
	}
	if _, err := platform.CompilePatterns(cfg.FileTypeRegexes.Trax, cfg.FileTypeRegexes.Itemz); err != nil {
		errs = append(errs, fmt.Errorf("file_type_regexes: %w", err))
	}

	switch cfg.EmptyRun {
	case EmptyRunIgnore, EmptyRunWarn, EmptyRunError:
	default:
		errs = append(errs, fmt.Errorf("empty_run: unknown policy %q", cfg.EmptyRun))
	}

	if cfg.MaxConcurrency < 1 {
		errs = append(errs, errors.New("max_concurrency must be at least 1"))
	}
	if cfg.RowConcurrency < 1 {
		errs = append(errs, errors.New("row_concurrency must be at least 1"))
	}

	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported driver %q", cfg.Database.Driver))
	}
	if cfg.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required (or set SLICETL_DATABASE_DSN)"))
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format))
	}

	for name, pc := range cfg.Platforms {
		if _, err := platform.Parse(name); err != nil {
			errs = append(errs, fmt.Errorf("platforms: %w", err))
			continue
		}
		if _, err := pc.Location(); err != nil {
			errs = append(errs, fmt.Errorf("platforms.%s.timezone: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
