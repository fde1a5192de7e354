// Package config provides configuration management for ice.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is left empty.
const (
	DefaultIndentSpaces = 4
	DefaultLanguage     = "python"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
	DefaultOutputFormat = "tree"
)

// Config holds the ice configuration.
type Config struct {
	IndentSpaces int    `yaml:"indent_spaces,omitempty"`
	Language     string `yaml:"language,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
	LogFormat    string `yaml:"log_format,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.IndentSpaces == 0 {
		c.IndentSpaces = DefaultIndentSpaces
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
}

// Validate checks that all set fields hold supported values.
func (c *Config) Validate() error {
	if c.IndentSpaces < 0 || c.IndentSpaces > 16 {
		return errors.New("indent_spaces must be between 1 and 16")
	}
	if c.Language != "" && c.Language != "python" {
		return fmt.Errorf("unsupported language %q", c.Language)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	switch c.OutputFormat {
	case "", "tree", "json", "plain":
	default:
		return fmt.Errorf("output_format must be tree, json or plain, got %q", c.OutputFormat)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: ICE_* → generic fallback → existing config value
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("ICE_INDENT_SPACES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IndentSpaces = n
		}
	}
	if lang := os.Getenv("ICE_LANGUAGE"); lang != "" {
		c.Language = lang
	}
	if level := getEnvWithFallback("ICE_LOG_LEVEL", "LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv("ICE_LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
	if output := os.Getenv("ICE_OUTPUT_FORMAT"); output != "" {
		c.OutputFormat = output
	}
}

// EnvVars lists the environment variables LoadFromEnv reads.
var EnvVars = []string{
	"ICE_INDENT_SPACES", "ICE_LANGUAGE", "ICE_LOG_LEVEL", "LOG_LEVEL",
	"ICE_LOG_FORMAT", "ICE_OUTPUT_FORMAT",
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ice", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ice", "config.yml")
	}

	return filepath.Join(home, ".config", "ice", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and fills in defaults. A missing file is not an error; a file
// that exists but cannot be parsed is.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
