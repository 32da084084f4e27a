// Package config handles configuration loading and validation for auditlens
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration file for auditlens
type Config struct {
	// Retrieval
	Timeout    string           `yaml:"timeout"`
	UserAgent  string           `yaml:"user_agent"`
	Proxy      string           `yaml:"proxy"`
	RateLimit  float64          `yaml:"rate_limit"`
	Strategies []StrategyConfig `yaml:"strategies"`

	// Storage & output
	HistoryFile string `yaml:"history_file"`
	Output      string `yaml:"output"`
}

// StrategyConfig describes one route to the target page.
// Template placeholders: {url} is the query-escaped target, {raw} the target as-is.
// A template of "{raw}" fetches the page directly.
type StrategyConfig struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// DefaultConfig returns a configuration that fetches pages directly
func DefaultConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout.String(),
		UserAgent: DefaultUserAgent,
		Strategies: []StrategyConfig{
			{Name: "direct", Template: "{raw}"},
		},
		HistoryFile: DefaultHistoryFile(),
		Output:      DefaultOutput,
	}
}

// DefaultHistoryFile returns the per-user history location
func DefaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".auditlens-history.json")
	}
	return filepath.Join(dir, "auditlens", "history.json")
}

// HistoryPath returns the history file to use, falling back to
// DefaultHistoryFile when none is configured.
func (c *Config) HistoryPath() string {
	if c.HistoryFile == "" {
		return DefaultHistoryFile()
	}
	return c.HistoryFile
}

// DefaultConfigFile returns the per-user config location
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "auditlens.yaml"
	}
	return filepath.Join(dir, "auditlens", "config.yaml")
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}

	names := make(map[string]struct{}, len(c.Strategies))
	for i, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategies[%d]: name is required", i)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("strategies[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = struct{}{}

		if !strings.Contains(s.Template, "{url}") && !strings.Contains(s.Template, "{raw}") {
			return fmt.Errorf("strategies[%d] (%s): template must contain {url} or {raw}", i, s.Name)
		}
	}

	switch c.Output {
	case "", "text", "human", "json":
	default:
		return fmt.Errorf("output must be text, human or json, got %q", c.Output)
	}

	return nil
}

// TimeoutDuration parses the per-attempt timeout. Empty means the default.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return d, nil
}
