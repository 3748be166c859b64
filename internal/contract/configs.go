package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/tier4/mapvalidator/schema"
)

// Default values for configuration.
const (
	DefaultLanguage = "en"
	DefaultChecks   = ".*"
	DefaultFailOn   = "warning"
	DefaultLogLevel = "warn"
	MaxWorkers      = 256
	AppName         = "mapvalidator"
	DateTimeFormat  = "2006-01-02 15:04:05"
)

// AppVersion is the released version, set by the command layer at startup.
var AppVersion = "dev"

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a validation run.
// This struct remains the "final, validated" config.
type Config struct {
	MapPath          string
	RequirementsPath string
	ExclusionsPath   string
	ParametersPath   string
	IssuesInfoPath   string
	Language         string
	CheckFilter      *regexp.Regexp
	FailOn           schema.Severity
	Workers          int
	Output           schema.OutputMode
	OutputFile       string
	Width            int // Terminal width override (0 = auto-detect)
	Watch            bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	// Parameters holds per-check tunables loaded from ParametersPath
	Parameters schema.Parameters

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	MapPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Workers          int    `mapstructure:"workers"`
	Width            int    `mapstructure:"width"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	Checks           string `mapstructure:"checks"`
	Language         string `mapstructure:"language"`
	IssuesInfo       string `mapstructure:"issues-info"`

	// --- Fields from validateCmd.Flags() ---
	Requirements string `mapstructure:"requirements"`
	Exclusions   string `mapstructure:"exclusions"`
	Parameters   string `mapstructure:"parameters"`
	FailOn       string `mapstructure:"fail-on"`
	Watch        bool   `mapstructure:"watch"`

	// --- Per-check parameters from config file ---
	CheckParams map[string]map[string]any `mapstructure:"params"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Parameters != nil {
		clone.Parameters = make(schema.Parameters, len(c.Parameters))
		for check, params := range c.Parameters {
			clone.Parameters[check] = maps.Clone(params)
		}
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCheckSelection(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processInputDocuments(cfg, input); err != nil {
		return err
	}
	processInlineParameters(cfg, input)
	return nil
}

// ProcessOutputOnly validates the subset of inputs used by commands that do not validate a map.
func ProcessOutputOnly(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCheckSelection(cfg, input); err != nil {
		return err
	}
	cfg.IssuesInfoPath = ""
	if input.IssuesInfo != "" {
		path, err := resolveExistingFile(input.IssuesInfo, "issues-info")
		if err != nil {
			return err
		}
		cfg.IssuesInfoPath = path
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Watch = input.Watch
	cfg.LogLevel = input.LogLevel
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	// --- 3. Logging Validation ---
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}

	// --- 4. Language Validation ---
	cfg.Language = strings.ToLower(input.Language)
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if _, ok := schema.ValidLanguages[cfg.Language]; !ok {
		return fmt.Errorf("invalid language '%s'. must be en, ja", input.Language)
	}

	return nil
}

// processCheckSelection compiles the check filter and the failure cutoff.
func processCheckSelection(cfg *Config, input *ConfigRawInput) error {
	pattern := input.Checks
	if pattern == "" {
		pattern = DefaultChecks
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid --checks pattern '%s': %w", pattern, err)
	}
	cfg.CheckFilter = re

	failOn := input.FailOn
	if failOn == "" {
		failOn = DefaultFailOn
	}
	sev, err := schema.ParseSeverity(failOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on value: %w", err)
	}
	if sev == schema.SeverityNone {
		return fmt.Errorf("invalid --fail-on value '%s'. must be info, warning, error", input.FailOn)
	}
	cfg.FailOn = sev
	return nil
}

// validateBackendConfig validates the run history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.HistoryBackend
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processInputDocuments resolves the map and the optional input documents to absolute paths.
func processInputDocuments(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.MapPathStr) == "" {
		return fmt.Errorf("a map file is required")
	}
	mapPath, err := resolveExistingFile(input.MapPathStr, "map")
	if err != nil {
		return err
	}
	cfg.MapPath = mapPath

	optional := []struct {
		raw  string
		name string
		dst  *string
	}{
		{input.Requirements, "requirements", &cfg.RequirementsPath},
		{input.Exclusions, "exclusions", &cfg.ExclusionsPath},
		{input.Parameters, "parameters", &cfg.ParametersPath},
		{input.IssuesInfo, "issues-info", &cfg.IssuesInfoPath},
	}
	for _, doc := range optional {
		if doc.raw == "" {
			*doc.dst = ""
			continue
		}
		path, err := resolveExistingFile(doc.raw, doc.name)
		if err != nil {
			return err
		}
		*doc.dst = path
	}
	return nil
}

// processInlineParameters copies the params section of the config file.
// A parameters file, when given, is merged on top by the caller.
func processInlineParameters(cfg *Config, input *ConfigRawInput) {
	cfg.Parameters = make(schema.Parameters, len(input.CheckParams))
	for check, params := range input.CheckParams {
		cfg.Parameters[check] = schema.CheckParameters(maps.Clone(params))
	}
}

func resolveExistingFile(raw, name string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%s file %q: %w", name, raw, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s file %q is a directory", name, raw)
	}
	return abs, nil
}

// RevalidateDocuments points cfg at another map and, optionally, other input documents
// and failure cutoff. It is used by callers that validate several maps with one base config.
func RevalidateDocuments(cfg *Config, mapPath, requirements, exclusions, failOn string) error {
	if strings.TrimSpace(mapPath) == "" {
		return fmt.Errorf("map_path is required")
	}
	resolved, err := resolveExistingFile(mapPath, "map")
	if err != nil {
		return err
	}
	cfg.MapPath = resolved

	if requirements != "" {
		if cfg.RequirementsPath, err = resolveExistingFile(requirements, "requirements"); err != nil {
			return err
		}
	}
	if exclusions != "" {
		if cfg.ExclusionsPath, err = resolveExistingFile(exclusions, "exclusions"); err != nil {
			return err
		}
	}
	if failOn != "" {
		sev, err := schema.ParseSeverity(failOn)
		if err != nil {
			return fmt.Errorf("invalid fail_on value: %w", err)
		}
		if sev == schema.SeverityNone {
			return fmt.Errorf("invalid fail_on value '%s'. must be info, warning, error", failOn)
		}
		cfg.FailOn = sev
	}
	return nil
}
