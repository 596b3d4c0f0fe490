package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"CLEANOPS_HTTP_PORT",
			"CLEANOPS_SQLITE_DSN",
			"CLEANOPS_SESSION_TTL",
			"CLEANOPS_FETCH_TIMEOUT",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:cleanops.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.FetchTimeout != 5*time.Second {
			t.Fatalf("expected default fetch timeout 5s, got %s", cfg.FetchTimeout)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("CLEANOPS_HTTP_PORT", "9090")
		t.Setenv("CLEANOPS_SQLITE_DSN", "file:/tmp/cleanops.db")
		t.Setenv("CLEANOPS_SESSION_TTL", "12h")
		t.Setenv("CLEANOPS_FETCH_TIMEOUT", "250ms")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/cleanops.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.FetchTimeout != 250*time.Millisecond {
			t.Fatalf("expected fetch timeout 250ms, got %s", cfg.FetchTimeout)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		t.Setenv("CLEANOPS_HTTP_PORT", "not-a-port")
		t.Setenv("CLEANOPS_SESSION_TTL", "yesterday")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: CLEANOPS_HTTP_PORT, CLEANOPS_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
