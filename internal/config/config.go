package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerlab.yaml configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Session SessionConfig `yaml:"session"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// LedgerConfig controls how a fresh ledger is seeded.
type LedgerConfig struct {
	SeedChart string `yaml:"seed_chart,omitempty"` // chart-of-accounts CSV; empty = built-in chart
}

// SessionConfig controls the interactive session output.
type SessionConfig struct {
	EchoTotals   bool   `yaml:"echo_totals"`
	HistoryOrder string `yaml:"history_order" validate:"oneof=oldest newest"`
	ScaleFloor   int64  `yaml:"scale_floor" validate:"gte=0"`
}

// Environment variables that override file settings.
const (
	EnvLogLevel   = "LEDGERLAB_LOG_LEVEL"
	EnvLogFormat  = "LEDGERLAB_LOG_FORMAT"
	EnvSeedChart  = "LEDGERLAB_SEED_CHART"
	EnvEchoTotals = "LEDGERLAB_ECHO_TOTALS"
)

var validate = validator.New()

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Session: SessionConfig{
			EchoTotals:   true,
			HistoryOrder: "newest",
			ScaleFloor:   20000,
		},
	}
}

// Load reads a ledgerlab.yaml file from disk on top of the defaults. It does
// not validate; Resolve validates after environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads path when set (defaults otherwise), then applies environment
// overrides from envFile and the process environment, and validates.
// A relative seed chart from the file is made relative to the file's
// directory; one from the environment is left for the working directory.
func Resolve(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if chart := cfg.Ledger.SeedChart; chart != "" && !filepath.IsAbs(chart) {
			cfg.Ledger.SeedChart = filepath.Join(filepath.Dir(path), chart)
		}
	}
	if err := ApplyEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from a dotenv file (if it exists) and then the
// process environment, which wins.
func ApplyEnv(cfg *Config, envFile string) error {
	vars := make(map[string]string)
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", envFile, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, k := range []string{EnvLogLevel, EnvLogFormat, EnvSeedChart, EnvEchoTotals} {
		if v, ok := os.LookupEnv(k); ok {
			vars[k] = v
		}
	}

	if v, ok := vars[EnvLogLevel]; ok {
		cfg.Log.Level = v
	}
	if v, ok := vars[EnvLogFormat]; ok {
		cfg.Log.Format = v
	}
	if v, ok := vars[EnvSeedChart]; ok {
		cfg.Ledger.SeedChart = v
	}
	if v, ok := vars[EnvEchoTotals]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvEchoTotals, v, err)
		}
		cfg.Session.EchoTotals = b
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
