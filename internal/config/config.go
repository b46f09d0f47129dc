// Package config reads simulator settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the headless simulator.
type Config struct {
	Seed      int64  `env:"TURNCORE_SEED"       envDefault:"0"`
	Battles   int    `env:"TURNCORE_BATTLES"    envDefault:"8"`
	Workers   int    `env:"TURNCORE_WORKERS"    envDefault:"4"`
	MaxTicks  uint32 `env:"TURNCORE_MAX_TICKS"  envDefault:"20000"`
	LogLevel  string `env:"TURNCORE_LOG_LEVEL"  envDefault:"info"`
	SavePath  string `env:"TURNCORE_SAVE_PATH"`
	Telemetry bool   `env:"TURNCORE_TELEMETRY"  envDefault:"false"`

	HoneycombAPIKey  string `env:"HONEYCOMB_TURNCORE_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_TURNCORE_DATASET" envDefault:"turncore"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the simulator configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the simulator cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Battles < 1 {
		errs = append(errs, fmt.Errorf("TURNCORE_BATTLES must be at least 1, got %d", c.Battles))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("TURNCORE_WORKERS must be at least 1, got %d", c.Workers))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Telemetry && strings.TrimSpace(c.HoneycombAPIKey) == "" {
		errs = append(errs, errors.New("TURNCORE_TELEMETRY needs HONEYCOMB_TURNCORE_API_KEY"))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel ("debug", "info", "warn", "error", optionally with
// an offset such as "info+2").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("TURNCORE_LOG_LEVEL: %w", err)
	}
	return level, nil
}
