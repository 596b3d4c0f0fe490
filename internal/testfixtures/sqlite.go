package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/cleanops/internal/persistence"
	"github.com/example/cleanops/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool         *sqlite.ConnectionPool
	Staff        persistence.StaffRepository
	Availability persistence.AvailabilityRepository
	Jobs         persistence.JobRepository
	Sessions     persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database file
// that is migrated automatically. A cleanup callback is registered with the
// provided testing.TB, so calling Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "cleanops.db")

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig("file:" + path))
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	ids := NewIDGenerator("window")

	harness := &SQLiteHarness{
		Pool:         pool,
		Staff:        sqlite.NewStaffRepository(pool),
		Availability: sqlite.NewAvailabilityRepository(pool, ids.Next),
		Jobs:         sqlite.NewJobRepository(pool),
		Sessions:     sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
