package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
)

// Config represents the application configuration.
type Config struct {
	// HTTP API configuration
	Server ServerConfig `toml:"server"`

	// Card catalog database
	Database DatabaseConfig `toml:"database"`

	// Deck-building session configuration
	Session SessionConfig `toml:"session"`

	// PT cost table
	Rules deck.Rules `toml:"rules"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port           int      `toml:"port" env:"CZ_PORT"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "60s"
	RateLimit      float64  `toml:"rate_limit" env:"CZ_RATE_LIMIT"` // deck commands per second, 0 = unlimited
	RateBurst      int      `toml:"rate_burst"`
}

// DatabaseConfig contains catalog database settings.
type DatabaseConfig struct {
	Path        string `toml:"path" env:"CZ_DB_PATH"` // empty = ~/.chaos-zero-companion/catalog.db
	AutoMigrate bool   `toml:"auto_migrate"`
}

// SessionConfig contains deck session settings.
type SessionConfig struct {
	IdleTTL       string `toml:"idle_ttl"`       // e.g. "2h"
	SweepInterval string `toml:"sweep_interval"` // e.g. "5m"
	DefaultTier   int    `toml:"default_tier" env:"CZ_DEFAULT_TIER"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			RequestTimeout: "60s",
			RateLimit:      20,
			RateBurst:      40,
		},
		Database: DatabaseConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Session: SessionConfig{
			IdleTTL:       "2h",
			SweepInterval: "5m",
			DefaultTier:   1,
		},
		Rules: deck.DefaultRules(),
	}
}

// Dir returns the application directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".chaos-zero-companion")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration file at path, layering it over the defaults
// and then applying environment overrides. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as TOML to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Server.RequestTimeout, err)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limiting: %d", c.Server.RateBurst)
	}

	if _, err := time.ParseDuration(c.Session.IdleTTL); err != nil {
		return fmt.Errorf("invalid session idle TTL %q: %w", c.Session.IdleTTL, err)
	}
	if _, err := time.ParseDuration(c.Session.SweepInterval); err != nil {
		return fmt.Errorf("invalid session sweep interval %q: %w", c.Session.SweepInterval, err)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	if !c.Rules.ValidTier(c.Session.DefaultTier) {
		return fmt.Errorf("default tier %d is outside [%d,%d]",
			c.Session.DefaultTier, c.Rules.MinTier, c.Rules.MaxTier)
	}

	return nil
}

// DatabasePath returns the configured database path or the default one.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// GetRequestTimeout returns the request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetSessionIdleTTL returns the idle session TTL as a duration.
func (c *Config) GetSessionIdleTTL() (time.Duration, error) {
	return time.ParseDuration(c.Session.IdleTTL)
}

// GetSweepInterval returns how often idle sessions are swept.
func (c *Config) GetSweepInterval() (time.Duration, error) {
	return time.ParseDuration(c.Session.SweepInterval)
}
