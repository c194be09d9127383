// Package config provides configuration management for the schema service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the schema service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Schemas    SchemasConfig    `yaml:"schemas"`
	Cache      CacheConfig      `yaml:"cache"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
}

// SchemasConfig represents schema loading configuration.
type SchemasConfig struct {
	Directory string `yaml:"directory"`
	Watch     bool   `yaml:"watch"` // reload on file changes
}

// CacheConfig represents compiled-schema cache configuration.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`
	TTL      int  `yaml:"ttl"` // seconds
}

// ValidationConfig represents validator behaviour configuration.
type ValidationConfig struct {
	// MessageSeparator joins per-field error messages: "newline" or
	// "semicolon".
	MessageSeparator string `yaml:"message_separator"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json, text
	File       string `yaml:"file"`   // empty for stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8081,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Schemas: SchemasConfig{
			Directory: "schemas",
			Watch:     false,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 256,
			TTL:      3600,
		},
		Validation: ValidationConfig{
			MessageSeparator: "newline",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration from a YAML file with environment variable
// overrides. An empty path loads defaults plus overrides only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		// #nosec G304 -- path is from command-line argument, user-controlled input is expected
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCHEMAKIT_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SCHEMAKIT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SCHEMAKIT_SCHEMA_DIR"); v != "" {
		c.Schemas.Directory = v
	}
	if v := os.Getenv("SCHEMAKIT_CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SCHEMAKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cache.Enabled && c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive when enabled: %d", c.Cache.Capacity)
	}
	switch c.Validation.MessageSeparator {
	case "newline", "semicolon":
	default:
		return fmt.Errorf("invalid message separator: %q", c.Validation.MessageSeparator)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// Separator returns the configured message separator string.
func (c *Config) Separator() string {
	if c.Validation.MessageSeparator == "semicolon" {
		return "; "
	}
	return "\n"
}
