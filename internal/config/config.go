// Package config loads the bootstrap configuration: where the database
// lives, which ledger namespace to open, and how to log. Tunables such as
// the default target live in the store's settings table instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultNamespace is the ledger namespace used when none is configured.
const DefaultNamespace = "istighfar_tracker"

// Config holds the bootstrap configuration.
type Config struct {
	DatabasePath string        `yaml:"database_path"`
	Namespace    string        `yaml:"namespace"`
	Logging      LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the file logger.
type LoggingConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// Dir returns ~/.config/istighfar.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "istighfar"), nil
}

// DefaultPath returns ~/.config/istighfar/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Namespace: DefaultNamespace,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
	if dir, err := Dir(); err == nil {
		cfg.DatabasePath = filepath.Join(dir, "istighfar.db")
		cfg.Logging.Path = filepath.Join(dir, "istighfar.log")
	}
	return cfg
}

// Load reads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ISTIGHFAR_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("ISTIGHFAR_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("ISTIGHFAR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}
