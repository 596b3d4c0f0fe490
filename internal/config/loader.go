package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the CleanOps service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	SessionTTL   time.Duration
	FetchTimeout time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while reporting
// every invalid value at once rather than stopping at the first.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:     8080,
		SQLiteDSN:    "file:cleanops.db?_foreign_keys=on",
		SessionTTL:   24 * time.Hour,
		FetchTimeout: 5 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CLEANOPS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CLEANOPS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CLEANOPS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("CLEANOPS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CLEANOPS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("CLEANOPS_FETCH_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "CLEANOPS_FETCH_TIMEOUT")
		} else {
			cfg.FetchTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
