// Package config loads ecofocus settings from ~/.ecofocus/config.yaml, an
// optional project overlay and ECOFOCUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/engine/cache"
	"github.com/rshade/ecofocus/internal/predictor"
	"github.com/rshade/ecofocus/internal/recommend"
)

// Environment variables that override file settings.
const (
	EnvHome       = "ECOFOCUS_HOME"
	EnvDB         = "ECOFOCUS_DB"
	EnvLogLevel   = "ECOFOCUS_LOG_LEVEL"
	EnvLogFormat  = "ECOFOCUS_LOG_FORMAT"
	EnvProjectDir = "ECOFOCUS_PROJECT_DIR"
	EnvSeed       = "ECOFOCUS_SEED"
)

// Defaults.
const (
	DefaultOutputFormat = "table"
	DefaultDBFile       = "ecofocus.db"
	DefaultCacheDir     = "cache"
	DefaultReportTTL    = "24h"
	configFileName      = "config.yaml"
	configFilePerm      = 0o600
	configDirPerm       = 0o700
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
	ErrInvalidVariant      = errors.New("invalid model variant")
	ErrInvalidRange        = errors.New("value out of range")
	ErrInvalidCacheTTL     = errors.New("invalid report cache ttl")
)

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// StorageConfig locates the history database and the report cache.
type StorageConfig struct {
	Database string `yaml:"database" json:"database"`
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// ModelConfig tunes training.
type ModelConfig struct {
	Variant      string `yaml:"variant"       json:"variant"`
	Estimators   int    `yaml:"estimators"    json:"estimators"`
	CVFolds      int    `yaml:"cv_folds"      json:"cv_folds"`
	TrainingRows int    `yaml:"training_rows" json:"training_rows"`
	Seed         uint64 `yaml:"seed"          json:"seed"`
	ReportTTL    string `yaml:"report_ttl"    json:"report_ttl"`
}

// ForecastConfig tunes forecasts. A zero seed draws fresh noise each run.
type ForecastConfig struct {
	Days int    `yaml:"days" json:"days"`
	Seed uint64 `yaml:"seed" json:"seed"`
}

// AnalysisConfig tunes reports and recommendations.
type AnalysisConfig struct {
	HistoryDays int     `yaml:"history_days" json:"history_days"`
	PlanWeeks   int     `yaml:"plan_weeks"   json:"plan_weeks"`
	CarbonPrice float64 `yaml:"carbon_price" json:"carbon_price"`
}

// Config is the full ecofocus configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"   json:"output"`
	Logging  LoggingConfig  `yaml:"logging"  json:"logging"`
	Storage  StorageConfig  `yaml:"storage"  json:"storage"`
	Model    ModelConfig    `yaml:"model"    json:"model"`
	Forecast ForecastConfig `yaml:"forecast" json:"forecast"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	path string
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Storage: StorageConfig{
			Database: filepath.Join(dir, DefaultDBFile),
			CacheDir: filepath.Join(dir, DefaultCacheDir),
		},
		Model: ModelConfig{
			Variant:      string(predictor.DefaultVariant),
			Estimators:   predictor.DefaultEstimators,
			CVFolds:      predictor.DefaultCVFolds,
			TrainingRows: engine.DefaultTrainingRows,
			Seed:         predictor.DefaultSeed,
			ReportTTL:    DefaultReportTTL,
		},
		Forecast: ForecastConfig{Days: engine.DefaultForecastDays},
		Analysis: AnalysisConfig{
			HistoryDays: engine.DefaultHistoryDays,
			PlanWeeks:   recommend.DefaultPlanWeeks,
			CarbonPrice: recommend.DefaultCarbonPrice,
		},
		path: filepath.Join(dir, configFileName),
	}
}

// New returns the defaults overlaid with the user's config file, if one
// exists, and then with environment overrides. A config file that cannot be
// parsed is ignored.
func New() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = "."
	}
	cfg := Default(dir)
	if _, statErr := os.Stat(cfg.path); statErr == nil {
		if loaded, loadErr := Load(cfg.path); loadErr == nil {
			cfg = loaded
		}
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path on top of the defaults. Sections absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	dir, err := GetConfigDir()
	if err != nil {
		dir = filepath.Dir(path)
	}
	cfg := Default(dir)
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Path returns the file the config is read from and saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), configDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.path, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config %s: %w", c.path, err)
	}
	return nil
}

// ApplyEnv applies ECOFOCUS_* overrides. An unparsable ECOFOCUS_SEED is ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Storage.Database = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Forecast.Seed = seed
		}
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if _, err := predictor.ParseVariant(c.Model.Variant); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVariant, err)
	}
	if c.Model.Estimators < 1 {
		return fmt.Errorf("%w: model.estimators must be positive", ErrInvalidRange)
	}
	if c.Model.TrainingRows < 1 {
		return fmt.Errorf("%w: model.training_rows must be positive", ErrInvalidRange)
	}
	if c.Model.ReportTTL != "" {
		if _, err := cache.ParseTTL(c.Model.ReportTTL); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCacheTTL, err)
		}
	}
	if c.Forecast.Days < 1 {
		return fmt.Errorf("%w: forecast.days must be positive", ErrInvalidRange)
	}
	if c.Analysis.HistoryDays < 1 {
		return fmt.Errorf("%w: analysis.history_days must be positive", ErrInvalidRange)
	}
	if c.Analysis.PlanWeeks < 1 {
		return fmt.Errorf("%w: analysis.plan_weeks must be positive", ErrInvalidRange)
	}
	if c.Analysis.CarbonPrice < 0 {
		return fmt.Errorf("%w: analysis.carbon_price must not be negative", ErrInvalidRange)
	}
	return nil
}

// ReportTTL returns the parsed report cache TTL, or the cache default.
func (c *Config) ReportTTL() time.Duration {
	ttl, err := cache.ParseTTL(c.Model.ReportTTL)
	if err != nil {
		return cache.DefaultTTL
	}
	return ttl
}
