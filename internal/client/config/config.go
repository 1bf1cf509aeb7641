package config

import (
	"fmt"
	"time"
)

// Token store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the courtbook CLI.
//
// Units: RequestTimeout and RefreshTimeout are time.Duration values.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration

	// TokenStore selects where the token pair lives: memory, sqlite or redis.
	TokenStore  string
	DatabaseDSN string
	RedisAddr   string
	RedisPrefix string

	// MetricsAddr, when set, exposes Prometheus metrics on host:port.
	MetricsAddr string
	LogLevel    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.TokenStore = StoreSQLite
	c.DatabaseDSN = "courtbook.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "courtbook:session:"
	c.MetricsAddr = ""
	c.LogLevel = "info"
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	switch c.TokenStore {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown token store %q", c.TokenStore)
	}
	if c.RequestTimeout <= 0 || c.RefreshTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
