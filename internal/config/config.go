// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Sessions    SessionsConfig    `yaml:"sessions"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// MarketplaceConfig defines upstream marketplace API settings.
type MarketplaceConfig struct {
	SearchURL          string          `yaml:"search_url"`
	SiteURL            string          `yaml:"site_url"`
	UserAgent          string          `yaml:"user_agent"`
	DeviceOS           string          `yaml:"device_os"`
	Source             string          `yaml:"source"`
	DefaultLatitude    float64         `yaml:"default_latitude"`
	DefaultLongitude   float64         `yaml:"default_longitude"`
	Timeout            time.Duration   `yaml:"timeout"`
	AppVersionTTL      time.Duration   `yaml:"app_version_ttl"`
	FallbackAppVersion string          `yaml:"fallback_app_version"`
	RateLimit          RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines upstream API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// SessionsConfig defines pagination session store settings.
type SessionsConfig struct {
	Capacity      int           `yaml:"capacity"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// CatalogConfig defines the item link catalog settings.
type CatalogConfig struct {
	Capacity int `yaml:"capacity"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	ApplyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyMarketplaceDefaults(&cfg.Marketplace)
	applySessionsDefaults(&cfg.Sessions)
	applyCatalogDefaults(&cfg.Catalog)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyMarketplaceDefaults(m *MarketplaceConfig) {
	if m.SearchURL == "" {
		m.SearchURL = "https://api.wallapop.com/api/v3/search"
	}
	if m.SiteURL == "" {
		m.SiteURL = "https://es.wallapop.com"
	}
	if m.UserAgent == "" {
		m.UserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:146.0) Gecko/20100101 Firefox/146.0"
	}
	if m.DeviceOS == "" {
		m.DeviceOS = "0"
	}
	if m.Source == "" {
		m.Source = "recent_searches"
	}
	if m.DefaultLatitude == 0 {
		m.DefaultLatitude = 43.3707332
	}
	if m.DefaultLongitude == 0 {
		m.DefaultLongitude = -8.3958532
	}
	if m.Timeout == 0 {
		m.Timeout = 15 * time.Second
	}
	if m.AppVersionTTL == 0 {
		m.AppVersionTTL = time.Hour
	}
	if m.FallbackAppVersion == "" {
		m.FallbackAppVersion = "814910"
	}
	applyRateLimitDefaults(&m.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 2
	}
	if r.Burst == 0 {
		r.Burst = 4
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applySessionsDefaults(s *SessionsConfig) {
	if s.Capacity == 0 {
		s.Capacity = 256
	}
	if s.TTL == 0 {
		s.TTL = 30 * time.Minute
	}
	if s.SweepInterval == 0 {
		s.SweepInterval = 5 * time.Minute
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Capacity == 0 {
		c.Capacity = 4096
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be a valid port (got %d)", cfg.Server.Port))
	}
	if cfg.Marketplace.SearchURL == "" {
		errs = append(errs, fmt.Errorf("marketplace.search_url is required"))
	}
	if cfg.Marketplace.SiteURL == "" {
		errs = append(errs, fmt.Errorf("marketplace.site_url is required"))
	}
	if cfg.Sessions.Capacity < 1 {
		errs = append(errs, fmt.Errorf("sessions.capacity must be >= 1 (got %d)", cfg.Sessions.Capacity))
	}
	if cfg.Sessions.TTL < time.Minute {
		errs = append(errs, fmt.Errorf("sessions.ttl must be >= 1m (got %s)", cfg.Sessions.TTL))
	}
	if cfg.Catalog.Capacity < 1 {
		errs = append(errs, fmt.Errorf("catalog.capacity must be >= 1 (got %d)", cfg.Catalog.Capacity))
	}

	return errors.Join(errs...)
}
