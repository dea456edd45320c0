package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/sparkline/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultPoints     = 0 // keep every point
	DefaultPrecision  = 1
	DefaultAddr       = ":8080"
	DefaultLogLevel   = "info"
	MaxPoints         = 10000
	StdinDatasetPath  = "-"
	DefaultComparison = schema.PercentageComparison
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a summary run.
// This struct remains the "final, validated" config.
type Config struct {
	DatasetPath   string // absolute path, or "-" for stdin
	DatasetFormat schema.DatasetFormat

	Points         int
	Measure        string
	ComparisonType schema.ComparisonType
	PositiveIsGood bool
	Title          string
	MeasureLabel   string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Addr     string
	LogLevel zapcore.Level

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored direction labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DatasetPathStr string

	Points         int    `mapstructure:"points"`
	Measure        string `mapstructure:"measure"`
	Comparison     string `mapstructure:"comparison"`
	PositiveIsGood string `mapstructure:"positive-is-good"`
	Title          string `mapstructure:"title"`
	MeasureLabel   string `mapstructure:"measure-label"`
	Format         string `mapstructure:"format"`

	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`

	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	Addr     string `mapstructure:"addr"`
	LogLevel string `mapstructure:"log-level"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SummaryOptions returns the engine options carried by this config.
func (c *Config) SummaryOptions() schema.SummaryOptions {
	return schema.SummaryOptions{
		Points:         c.Points,
		Measure:        c.Measure,
		ComparisonType: c.ComparisonType,
		PositiveIsGood: c.PositiveIsGood,
		Title:          c.Title,
		MeasureLabel:   c.MeasureLabel,
	}
}

// ValidateSummaryOptions checks engine options that arrive outside of the CLI flags,
// such as HTTP bodies and MCP tool arguments.
func ValidateSummaryOptions(opts schema.SummaryOptions) error {
	if opts.Points < 0 || opts.Points > MaxPoints {
		return fmt.Errorf("points must be between 0 and %d (received %d)", MaxPoints, opts.Points)
	}
	if _, ok := schema.ValidComparisonTypes[opts.ComparisonType]; !ok {
		return fmt.Errorf("invalid comparison type '%s'. must be percentage, absolute", opts.ComparisonType)
	}
	return nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSummaryOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveDatasetPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend lower-cases and validates a backend name.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// History tracking is opt-in
	if input.HistoryBackend == "" {
		cfg.HistoryBackend = ""
		return nil
	}
	backend, err = ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	level := input.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = parsed

	return nil
}

// processSummaryOptions handles the engine options.
func processSummaryOptions(cfg *Config, input *ConfigRawInput) error {
	if input.Points < 0 || input.Points > MaxPoints {
		return fmt.Errorf("points must be between 0 and %d (received %d)", MaxPoints, input.Points)
	}
	cfg.Points = input.Points
	cfg.Measure = strings.TrimSpace(input.Measure)
	cfg.Title = input.Title
	cfg.MeasureLabel = input.MeasureLabel

	comparison := input.Comparison
	if comparison == "" {
		comparison = string(DefaultComparison)
	}
	cfg.ComparisonType = schema.ComparisonType(strings.ToLower(comparison))
	if _, ok := schema.ValidComparisonTypes[cfg.ComparisonType]; !ok {
		return fmt.Errorf("invalid comparison type '%s'. must be percentage, absolute", input.Comparison)
	}

	// An unset polarity means increases are good news
	cfg.PositiveIsGood = true
	if input.PositiveIsGood != "" {
		good, err := ParseBoolString(input.PositiveIsGood)
		if err != nil {
			return fmt.Errorf("invalid --positive-is-good value: %w", err)
		}
		cfg.PositiveIsGood = good
	}

	format := input.Format
	if format == "" {
		format = string(schema.AutoFormat)
	}
	cfg.DatasetFormat = schema.DatasetFormat(strings.ToLower(format))
	if _, ok := schema.ValidDatasetFormats[cfg.DatasetFormat]; !ok {
		return fmt.Errorf("invalid dataset format '%s'. must be auto, json, csv", input.Format)
	}
	return nil
}

// resolveDatasetPath resolves the dataset argument into an absolute file path.
// An empty argument or "-" reads the dataset from stdin.
func resolveDatasetPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.DatasetPathStr)
	if path == "" || path == StdinDatasetPath {
		cfg.DatasetPath = StdinDatasetPath
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("dataset %q is not readable: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset %q is a directory", path)
	}
	cfg.DatasetPath = filepath.Clean(absPath)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
