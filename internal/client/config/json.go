package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/courtbook/internal/flagx"
	"github.com/dmitrijs2005/courtbook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so the file may hold "15s" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshTimeout timex.Duration `json:"refresh_timeout"`
	TokenStore     string         `json:"token_store"`
	DatabaseDSN    string         `json:"database_dsn"`
	RedisAddr      string         `json:"redis_addr"`
	RedisPrefix    string         `json:"redis_prefix"`
	MetricsAddr    string         `json:"metrics_addr"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values from the JSON file named by -c,
// -config or $COURTBOOK_CONFIG. Keys absent from the file leave the field
// untouched. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TokenStore, jc.TokenStore)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshTimeout.Duration > 0 {
		cfg.RefreshTimeout = jc.RefreshTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
