// Package config provides configuration loading and management for buttonctl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete buttonctl configuration
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Command  CommandConfig  `yaml:"command"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DocumentConfig configures the HTML document being mutated
type DocumentConfig struct {
	// Path is the HTML document path (default: ./index.html)
	Path string `yaml:"path,omitempty"`
	// ReconcileOnStart seeds the used-identifier set from buttons already in the document
	ReconcileOnStart *bool `yaml:"reconcile_on_start,omitempty"`
}

// CommandConfig configures the control file
type CommandConfig struct {
	// Path is the control file path (default: ./command.txt)
	Path string `yaml:"path,omitempty"`
	// CreateIfMissing creates an empty control file at startup when absent
	CreateIfMissing *bool `yaml:"create_if_missing,omitempty"`
}

// WatchConfig configures control file watching
type WatchConfig struct {
	// Debounce coalesces bursts of writes (0 = one pass per write notification)
	Debounce *time.Duration `yaml:"debounce,omitempty"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File additionally writes logs to this path when set
	File string `yaml:"file,omitempty"`
}

// MetricsConfig configures the optional Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Path:             "./index.html",
			ReconcileOnStart: boolPtr(true),
		},
		Command: CommandConfig{
			Path:            "./command.txt",
			CreateIfMissing: boolPtr(true),
		},
		Watch: WatchConfig{
			Debounce: durationPtr(0),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Reconcile reports whether the used-identifier set is seeded at startup.
func (c *Config) Reconcile() bool {
	return c.Document.ReconcileOnStart == nil || *c.Document.ReconcileOnStart
}

// CreateCommandFile reports whether a missing control file is created at startup.
func (c *Config) CreateCommandFile() bool {
	return c.Command.CreateIfMissing == nil || *c.Command.CreateIfMissing
}

// DebounceDelay returns the watch debounce, zero when unset.
func (c *Config) DebounceDelay() time.Duration {
	if c.Watch.Debounce == nil {
		return 0
	}
	return *c.Watch.Debounce
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Document.Path == "" {
		return fmt.Errorf("document.path is required")
	}
	if c.Command.Path == "" {
		return fmt.Errorf("command.path is required")
	}
	if filepath.Clean(c.Document.Path) == filepath.Clean(c.Command.Path) {
		return fmt.Errorf("document.path and command.path must differ")
	}
	if c.DebounceDelay() < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLayer loads a YAML file without defaults, for merging over another config.
func loadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Document
	if other.Document.Path != "" {
		c.Document.Path = other.Document.Path
	}
	if other.Document.ReconcileOnStart != nil {
		c.Document.ReconcileOnStart = boolPtr(*other.Document.ReconcileOnStart)
	}

	// Command
	if other.Command.Path != "" {
		c.Command.Path = other.Command.Path
	}
	if other.Command.CreateIfMissing != nil {
		c.Command.CreateIfMissing = boolPtr(*other.Command.CreateIfMissing)
	}

	// Watch
	if other.Watch.Debounce != nil {
		c.Watch.Debounce = durationPtr(*other.Watch.Debounce)
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
