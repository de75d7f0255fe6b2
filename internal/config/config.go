// Package config loads the run configuration for a training session.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Data               string  `yaml:"data"`
	Header             bool    `yaml:"header"`
	NumValues          int     `yaml:"num_values"`
	NumTargets         int     `yaml:"num_targets"`
	HiddenSize         int     `yaml:"hidden_size"`
	LearnRate          float64 `yaml:"learn_rate"`
	Momentum           float64 `yaml:"momentum"`
	Iterations         int     `yaml:"iterations"`
	EpochsPerIteration int     `yaml:"epochs_per_iteration"`
	ValidationPct      int     `yaml:"validation_pct"`
	CrossValidationPct int     `yaml:"cross_validation_pct"`
	Normalize          bool    `yaml:"normalize"`
	Seed               int64   `yaml:"seed"`
	LogEvery           int     `yaml:"log_every"`
	CSVLog             string  `yaml:"csv_log"`

	// EarlyStoppingPatience ends training after that many iterations without
	// the cost improving by more than EarlyStoppingThreshold. 0 disables it.
	EarlyStoppingPatience  int     `yaml:"early_stopping_patience"`
	EarlyStoppingThreshold float64 `yaml:"early_stopping_threshold"`
}

// Overrides captures CLI supplied values. A nil field leaves the config
// untouched, so explicit zeros such as a momentum of 0 still apply.
type Overrides struct {
	Data                  *string
	HiddenSize            *int
	LearnRate             *float64
	Momentum              *float64
	Iterations            *int
	EpochsPerIteration    *int
	Seed                  *int64
	CSVLog                *string
	EarlyStoppingPatience *int
}

// Default returns the iris setup: 4 inputs, 3 hidden units, 3 one-hot targets.
func Default() *Config {
	return &Config{
		Data:               "data/iris.csv",
		Header:             true,
		NumValues:          4,
		NumTargets:         3,
		HiddenSize:         3,
		LearnRate:          0.4,
		Momentum:           0.95,
		Iterations:         10,
		EpochsPerIteration: 100,
		ValidationPct:      15,
		CrossValidationPct: 15,
		LogEvery:           1,
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg with every non-nil override. The result is
// not validated.
func (c *Config) ApplyOverrides(o Overrides) {
	set(&c.Data, o.Data)
	set(&c.HiddenSize, o.HiddenSize)
	set(&c.LearnRate, o.LearnRate)
	set(&c.Momentum, o.Momentum)
	set(&c.Iterations, o.Iterations)
	set(&c.EpochsPerIteration, o.EpochsPerIteration)
	set(&c.Seed, o.Seed)
	set(&c.CSVLog, o.CSVLog)
	set(&c.EarlyStoppingPatience, o.EarlyStoppingPatience)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate verifies the config is runnable. It never modifies c.
// A log_every of 0 turns progress logging off.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data == "" {
		return errors.New("data must be set")
	}
	if c.NumValues <= 0 {
		return fmt.Errorf("num_values must be > 0 (got %d)", c.NumValues)
	}
	if c.NumTargets <= 0 {
		return fmt.Errorf("num_targets must be > 0 (got %d)", c.NumTargets)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("hidden_size must be > 0 (got %d)", c.HiddenSize)
	}
	if math.IsNaN(c.LearnRate) || math.IsInf(c.LearnRate, 0) {
		return fmt.Errorf("learn_rate must be finite (got %v)", c.LearnRate)
	}
	if math.IsNaN(c.Momentum) || math.IsInf(c.Momentum, 0) {
		return fmt.Errorf("momentum must be finite (got %v)", c.Momentum)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (got %d)", c.Iterations)
	}
	if c.EpochsPerIteration <= 0 {
		return fmt.Errorf("epochs_per_iteration must be > 0 (got %d)", c.EpochsPerIteration)
	}
	if c.ValidationPct < 0 || c.CrossValidationPct < 0 || c.ValidationPct+c.CrossValidationPct >= 100 {
		return fmt.Errorf("validation_pct + cross_validation_pct must be in [0, 100) (got %d + %d)",
			c.ValidationPct, c.CrossValidationPct)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("log_every must be >= 0 (got %d)", c.LogEvery)
	}
	if c.EarlyStoppingPatience < 0 {
		return fmt.Errorf("early_stopping_patience must be >= 0 (got %d)", c.EarlyStoppingPatience)
	}
	if c.EarlyStoppingThreshold < 0 || math.IsNaN(c.EarlyStoppingThreshold) || math.IsInf(c.EarlyStoppingThreshold, 0) {
		return fmt.Errorf("early_stopping_threshold must be finite and >= 0 (got %v)", c.EarlyStoppingThreshold)
	}
	return nil
}
