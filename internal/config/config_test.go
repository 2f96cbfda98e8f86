package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Gateway != "https://premium.w3ipfs.storage" {
		t.Errorf("expected default gateway, got %s", cfg.Gateway)
	}
	if cfg.Workers != 10 {
		t.Errorf("expected default workers 10, got %d", cfg.Workers)
	}
	if cfg.BatchSize != 200 {
		t.Errorf("expected default batch size 200, got %d", cfg.BatchSize)
	}
	if cfg.Fetch.MaxRetries != 10 {
		t.Errorf("expected default max retries 10, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.BaseDelay != 2*time.Second {
		t.Errorf("expected default base delay 2s, got %v", cfg.Fetch.BaseDelay)
	}
	if cfg.Fetch.MaxDelay != 30*time.Second {
		t.Errorf("expected default max delay 30s, got %v", cfg.Fetch.MaxDelay)
	}
	if cfg.Fetch.Jitter != time.Second {
		t.Errorf("expected default jitter 1s, got %v", cfg.Fetch.Jitter)
	}
	if cfg.Fetch.Timeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %v", cfg.Fetch.Timeout)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
database_url: postgres://haven@localhost/haven
gateway: https://gateway.example.com
output: dataset.parquet
workers: 4
batch_size: 50
min_confidence: 0.8
progress: true
fetch:
  max_retries: 3
  base_delay: 500ms
  max_delay: 5s
  jitter: 250ms
  timeout: 10s
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.DatabaseURL != "postgres://haven@localhost/haven" {
		t.Errorf("expected database URL, got %s", cfg.DatabaseURL)
	}
	if cfg.Gateway != "https://gateway.example.com" {
		t.Errorf("expected gateway overridden, got %s", cfg.Gateway)
	}
	if cfg.Output != "dataset.parquet" {
		t.Errorf("expected output dataset.parquet, got %s", cfg.Output)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Workers)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.BatchSize)
	}
	if cfg.MinConfidence != 0.8 {
		t.Errorf("expected min confidence 0.8, got %v", cfg.MinConfidence)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
	if cfg.Fetch.MaxRetries != 3 {
		t.Errorf("expected max retries 3, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.BaseDelay != 500*time.Millisecond {
		t.Errorf("expected base delay 500ms, got %v", cfg.Fetch.BaseDelay)
	}
	if cfg.Fetch.MaxDelay != 5*time.Second {
		t.Errorf("expected max delay 5s, got %v", cfg.Fetch.MaxDelay)
	}
	if cfg.Fetch.Jitter != 250*time.Millisecond {
		t.Errorf("expected jitter 250ms, got %v", cfg.Fetch.Jitter)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Fetch.Timeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HAVEN_DATABASE_URL", "postgres://env@localhost/haven")
	t.Setenv("HAVEN_WORKERS", "20")
	t.Setenv("HAVEN_BATCH_SIZE", "500")
	t.Setenv("HAVEN_MIN_CONFIDENCE", "0.5")
	t.Setenv("HAVEN_PROGRESS", "1")
	t.Setenv("HAVEN_MAX_RETRIES", "5")
	t.Setenv("HAVEN_BASE_DELAY", "1s")
	t.Setenv("HAVEN_TIMEOUT", "20s")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.DatabaseURL != "postgres://env@localhost/haven" {
		t.Errorf("expected database URL from env, got %s", cfg.DatabaseURL)
	}
	if cfg.Workers != 20 {
		t.Errorf("expected workers 20, got %d", cfg.Workers)
	}
	if cfg.BatchSize != 500 {
		t.Errorf("expected batch size 500, got %d", cfg.BatchSize)
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("expected min confidence 0.5, got %v", cfg.MinConfidence)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
	if cfg.Fetch.MaxRetries != 5 {
		t.Errorf("expected max retries 5, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.BaseDelay != time.Second {
		t.Errorf("expected base delay 1s, got %v", cfg.Fetch.BaseDelay)
	}
	if cfg.Fetch.Timeout != 20*time.Second {
		t.Errorf("expected timeout 20s, got %v", cfg.Fetch.Timeout)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("HAVEN_WORKERS", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid HAVEN_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.DatabaseURL = "postgres://haven@localhost/haven"
	valid.Output = "dataset.parquet"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing database URL",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing gateway",
			mutate:  func(c *Config) { c.Gateway = "" },
			wantErr: true,
		},
		{
			name:    "missing output",
			mutate:  func(c *Config) { c.Output = "" },
			wantErr: true,
		},
		{
			name:    "invalid workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "invalid batch size",
			mutate:  func(c *Config) { c.BatchSize = -1 },
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			mutate:  func(c *Config) { c.MinConfidence = 1.5 },
			wantErr: true,
		},
		{
			name:    "invalid max retries",
			mutate:  func(c *Config) { c.Fetch.MaxRetries = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.DatabaseURL = "postgres://haven@localhost/haven"
	base.Output = "dataset.parquet"

	override := Config{
		Workers: 32,
		Fetch: FetchConfig{
			Timeout: 5 * time.Second,
		},
	}

	merged := base.Merge(override)

	if merged.DatabaseURL != "postgres://haven@localhost/haven" {
		t.Errorf("expected DatabaseURL preserved, got %s", merged.DatabaseURL)
	}
	if merged.Gateway != "https://premium.w3ipfs.storage" {
		t.Errorf("expected Gateway preserved, got %s", merged.Gateway)
	}
	if merged.BatchSize != 200 {
		t.Errorf("expected BatchSize preserved, got %d", merged.BatchSize)
	}

	if merged.Workers != 32 {
		t.Errorf("expected Workers overridden to 32, got %d", merged.Workers)
	}
	if merged.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected Timeout overridden to 5s, got %v", merged.Fetch.Timeout)
	}
	if merged.Fetch.MaxRetries != 10 {
		t.Errorf("expected MaxRetries preserved, got %d", merged.Fetch.MaxRetries)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
