package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig is the environment overlay. It carries no env-default tags:
// unset variables must not clobber values from the JSON file.
type EnvConfig struct {
	APIBaseURL     string        `env:"COURTBOOK_API_URL" env-description:"backend base URL"`
	RequestTimeout time.Duration `env:"COURTBOOK_REQUEST_TIMEOUT" env-description:"per-request timeout"`
	RefreshTimeout time.Duration `env:"COURTBOOK_REFRESH_TIMEOUT" env-description:"token refresh timeout"`
	TokenStore     string        `env:"COURTBOOK_TOKEN_STORE" env-description:"memory, sqlite or redis"`
	DatabaseDSN    string        `env:"COURTBOOK_DATABASE_DSN" env-description:"sqlite database file"`
	RedisAddr      string        `env:"COURTBOOK_REDIS_ADDR" env-description:"redis host:port"`
	RedisPrefix    string        `env:"COURTBOOK_REDIS_PREFIX" env-description:"redis key prefix"`
	MetricsAddr    string        `env:"COURTBOOK_METRICS_ADDR" env-description:"prometheus listen address"`
	LogLevel       string        `env:"COURTBOOK_LOG_LEVEL" env-description:"debug, info, warn or error"`
}

// parseEnv overlays Config with COURTBOOK_* variables that are set.
// Panics when a variable cannot be parsed.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.TokenStore, ec.TokenStore)
	setString(&cfg.DatabaseDSN, ec.DatabaseDSN)
	setString(&cfg.RedisAddr, ec.RedisAddr)
	setString(&cfg.RedisPrefix, ec.RedisPrefix)
	setString(&cfg.MetricsAddr, ec.MetricsAddr)
	setString(&cfg.LogLevel, ec.LogLevel)
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.RefreshTimeout > 0 {
		cfg.RefreshTimeout = ec.RefreshTimeout
	}
}

// EnvUsage describes the recognised variables, for -help output.
func EnvUsage() string {
	var ec EnvConfig
	desc, err := cleanenv.GetDescription(&ec, nil)
	if err != nil {
		return ""
	}
	return desc
}
