// Package config loads runtime configuration for the courtbook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c, -config or
//     $COURTBOOK_CONFIG.
//  3. Environment variables COURTBOOK_* (see parseEnv), read with cleanenv.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-s string   token store: memory, sqlite or redis
//	-d string   sqlite database file
//	-r string   redis address
//	-m string   metrics listen address
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "15s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.courtbook.example/api",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "10s",
//	  "token_store": "redis",
//	  "redis_addr": "127.0.0.1:6379"
//	}
package config
