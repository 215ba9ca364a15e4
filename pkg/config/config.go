package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up inside the data directory.
const FileName = "config.yaml"

// Config holds user preferences loaded from config.yaml.
type Config struct {
	DefaultProject string `yaml:"default_project,omitempty"`
	TimeFormat     string `yaml:"time_format,omitempty"`
	DigestDays     int    `yaml:"digest_days,omitempty"`
	StaleDays      int    `yaml:"stale_days,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		TimeFormat: "15:04",
		DigestDays: 7,
		StaleDays:  30,
		LogLevel:   "warn",
	}
}

// Load reads config.yaml from dataDir. A missing file yields Default().
func Load(dataDir string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = Default().TimeFormat
	}
	if cfg.DigestDays <= 0 {
		cfg.DigestDays = Default().DigestDays
	}
	if cfg.StaleDays <= 0 {
		cfg.StaleDays = Default().StaleDays
	}
	return cfg, nil
}

// Save writes cfg to config.yaml in dataDir.
func Save(dataDir string, cfg *Config) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	return os.WriteFile(filepath.Join(dataDir, FileName), data, 0644)
}

// Project resolves the active project name: flag, then LABBOOK_PROJECT,
// then default_project.
func (c *Config) Project(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("LABBOOK_PROJECT"); p != "" {
		return p
	}
	return c.DefaultProject
}

// Level maps log_level to a slog level. Unknown values fall back to warn.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
