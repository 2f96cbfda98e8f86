package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the haven2llava CLI.
type Config struct {
	DatabaseURL   string      `yaml:"database_url"`
	Gateway       string      `yaml:"gateway"`
	Output        string      `yaml:"output"`
	ImageDir      string      `yaml:"image_dir"`
	Workers       int         `yaml:"workers"`
	BatchSize     int         `yaml:"batch_size"`
	MinConfidence float64     `yaml:"min_confidence"`
	Progress      bool        `yaml:"progress"`
	Fetch         FetchConfig `yaml:"fetch"`
}

// FetchConfig defines gateway fetch and retry behavior.
type FetchConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Jitter     time.Duration `yaml:"jitter"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Gateway:   "https://premium.w3ipfs.storage",
		Workers:   10,
		BatchSize: 200,
		Fetch: FetchConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
			Jitter:     time.Second,
			Timeout:    15 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	DatabaseURL   string          `yaml:"database_url"`
	Gateway       string          `yaml:"gateway"`
	Output        string          `yaml:"output"`
	ImageDir      string          `yaml:"image_dir"`
	Workers       int             `yaml:"workers"`
	BatchSize     int             `yaml:"batch_size"`
	MinConfidence float64         `yaml:"min_confidence"`
	Progress      bool            `yaml:"progress"`
	Fetch         yamlFetchConfig `yaml:"fetch"`
}

type yamlFetchConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
	MaxDelay   string `yaml:"max_delay"`
	Jitter     string `yaml:"jitter"`
	Timeout    string `yaml:"timeout"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.DatabaseURL != "" {
		cfg.DatabaseURL = yc.DatabaseURL
	}
	if yc.Gateway != "" {
		cfg.Gateway = yc.Gateway
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.ImageDir != "" {
		cfg.ImageDir = yc.ImageDir
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.BatchSize != 0 {
		cfg.BatchSize = yc.BatchSize
	}
	if yc.MinConfidence != 0 {
		cfg.MinConfidence = yc.MinConfidence
	}
	cfg.Progress = yc.Progress
	if yc.Fetch.MaxRetries != 0 {
		cfg.Fetch.MaxRetries = yc.Fetch.MaxRetries
	}
	if yc.Fetch.BaseDelay != "" {
		d, err := time.ParseDuration(yc.Fetch.BaseDelay)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.base_delay: %w", err)
		}
		cfg.Fetch.BaseDelay = d
	}
	if yc.Fetch.MaxDelay != "" {
		d, err := time.ParseDuration(yc.Fetch.MaxDelay)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.max_delay: %w", err)
		}
		cfg.Fetch.MaxDelay = d
	}
	if yc.Fetch.Jitter != "" {
		d, err := time.ParseDuration(yc.Fetch.Jitter)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.jitter: %w", err)
		}
		cfg.Fetch.Jitter = d
	}
	if yc.Fetch.Timeout != "" {
		d, err := time.ParseDuration(yc.Fetch.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch.timeout: %w", err)
		}
		cfg.Fetch.Timeout = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the HAVEN_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HAVEN_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("HAVEN_GATEWAY"); v != "" {
		c.Gateway = v
	}
	if v := os.Getenv("HAVEN_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("HAVEN_IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("HAVEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("HAVEN_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_BATCH_SIZE: %w", err)
		}
		c.BatchSize = n
	}
	if v := os.Getenv("HAVEN_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse HAVEN_MIN_CONFIDENCE: %w", err)
		}
		c.MinConfidence = f
	}
	if v := os.Getenv("HAVEN_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("HAVEN_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_MAX_RETRIES: %w", err)
		}
		c.Fetch.MaxRetries = n
	}
	if v := os.Getenv("HAVEN_BASE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_BASE_DELAY: %w", err)
		}
		c.Fetch.BaseDelay = d
	}
	if v := os.Getenv("HAVEN_MAX_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_MAX_DELAY: %w", err)
		}
		c.Fetch.MaxDelay = d
	}
	if v := os.Getenv("HAVEN_JITTER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_JITTER: %w", err)
		}
		c.Fetch.Jitter = d
	}
	if v := os.Getenv("HAVEN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HAVEN_TIMEOUT: %w", err)
		}
		c.Fetch.Timeout = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: database_url is required")
	}
	if c.Gateway == "" {
		return errors.New("config: gateway is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("config: batch_size must be positive")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.New("config: min_confidence must be between 0 and 1")
	}
	if c.Fetch.MaxRetries <= 0 {
		return errors.New("config: fetch.max_retries must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.DatabaseURL != "" {
		c.DatabaseURL = override.DatabaseURL
	}
	if override.Gateway != "" {
		c.Gateway = override.Gateway
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.ImageDir != "" {
		c.ImageDir = override.ImageDir
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.BatchSize != 0 {
		c.BatchSize = override.BatchSize
	}
	if override.MinConfidence != 0 {
		c.MinConfidence = override.MinConfidence
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Fetch.MaxRetries != 0 {
		c.Fetch.MaxRetries = override.Fetch.MaxRetries
	}
	if override.Fetch.BaseDelay != 0 {
		c.Fetch.BaseDelay = override.Fetch.BaseDelay
	}
	if override.Fetch.MaxDelay != 0 {
		c.Fetch.MaxDelay = override.Fetch.MaxDelay
	}
	if override.Fetch.Jitter != 0 {
		c.Fetch.Jitter = override.Fetch.Jitter
	}
	if override.Fetch.Timeout != 0 {
		c.Fetch.Timeout = override.Fetch.Timeout
	}
	return c
}
