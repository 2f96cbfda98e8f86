package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/config"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/gateway"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/progress"
)

// loadConfig layers defaults, an optional YAML file, environment
// variables, and flag overrides, in increasing precedence.
func loadConfig(configPath string, overrides config.Config) (config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds a console logger writing to stderr.
func newLogger() *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.InfoLevel,
	)
	return zap.New(core)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[haven2llava] Received interrupt, shutting down...")
		cancel()
	}()

	return ctx, cancel
}

// newClient builds the gateway client from the fetch configuration.
func newClient(cfg config.Config) *gateway.Client {
	return gateway.NewClient(gateway.Options{
		BaseURL:             cfg.Gateway,
		Timeout:             cfg.Fetch.Timeout,
		MaxRetries:          cfg.Fetch.MaxRetries,
		BaseDelay:           cfg.Fetch.BaseDelay,
		MaxDelay:            cfg.Fetch.MaxDelay,
		Jitter:              cfg.Fetch.Jitter,
		MaxIdleConnsPerHost: cfg.Workers,
	})
}

// newReporter builds a progress reporter when progress output is
// enabled, nil otherwise.
func newReporter(cfg config.Config, total int) *progress.Reporter {
	if !cfg.Progress {
		return nil
	}
	return progress.NewReporter(progress.Options{
		TotalRecords: total,
		Workers:      cfg.Workers,
		Gateway:      cfg.Gateway,
	})
}
