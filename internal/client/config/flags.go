package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/courtbook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-s string   token store: memory, sqlite or redis
//	-d string   sqlite database file
//	-r string   redis address
//	-m string   metrics listen address
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// parsers (-c) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-r", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.TokenStore, "s", cfg.TokenStore, "token store (memory, sqlite, redis)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite database file")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address, empty to disable")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
