package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pthm/elemental"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration file.
type Config struct {
	Prefix             string `yaml:"prefix"`
	Listen             string `yaml:"listen"`
	LogLevel           string `yaml:"log_level"`
	AdoptedStylesheets bool   `yaml:"adopted_stylesheets"`
	// StateKey signs serialized state with HMAC-SHA256 when set.
	StateKey string `yaml:"state_key"`
}

func defaultConfig() Config {
	return Config{
		Prefix:             elemental.DefaultPrefix,
		Listen:             ":8080",
		LogLevel:           "info",
		AdoptedStylesheets: true,
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if _, err := elemental.NewPrefix(c.Prefix); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.StateKey != "" && len(c.StateKey) < 32 {
		errs = append(errs, errors.New("state_key must be at least 32 bytes"))
	}
	return errors.Join(errs...)
}

// newLogger builds a console logger writing to stderr.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
