// Package config loads yatube settings from a YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all yatube configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	IdleTimeout  string `yaml:"idle_timeout"`
}

// DatabaseConfig selects the sqlite driver and file.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite (pure Go) or sqlite3 (cgo)
	Path   string `yaml:"path"`
}

// SessionConfig configures login sessions.
type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	CookieName    string `yaml:"cookie_name"`
	SecureCookie  bool   `yaml:"secure_cookie"`
	SweepInterval string `yaml:"sweep_interval"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Supported database drivers.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  "5s",
			WriteTimeout: "10s",
			IdleTimeout:  "1m",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "yatube.db",
		},
		Session: SessionConfig{
			TTL:           "24h",
			CookieName:    "sessionid",
			SweepInterval: "1h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("YATUBE_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if driver := os.Getenv("YATUBE_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if path := os.Getenv("YATUBE_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if level := os.Getenv("YATUBE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if ttl := os.Getenv("YATUBE_SESSION_TTL"); ttl != "" {
		c.Session.TTL = ttl
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 5*time.Second)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 10*time.Second)
}

func (c *Config) GetIdleTimeout() time.Duration {
	return parseDuration(c.Server.IdleTimeout, time.Minute)
}

// GetSessionTTL returns the session lifetime, 24h when unset or invalid.
func (c *Config) GetSessionTTL() time.Duration {
	return parseDuration(c.Session.TTL, 24*time.Hour)
}

func (c *Config) GetSweepInterval() time.Duration {
	return parseDuration(c.Session.SweepInterval, time.Hour)
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address not configured")
	}
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverSQLite3 {
		return fmt.Errorf("invalid database driver: %s (valid: %s, %s)", c.Database.Driver, DriverSQLite, DriverSQLite3)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path not configured")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name not configured")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}
