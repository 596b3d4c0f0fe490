package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements define the full schema. Statements are idempotent so
// Migrate can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL COLLATE NOCASE UNIQUE,
		display_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('staff', 'admin')),
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS availability_windows (
		id           TEXT PRIMARY KEY,
		staff_id     TEXT NOT NULL REFERENCES staff(id),
		day_of_week  INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		is_available INTEGER NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		UNIQUE (staff_id, day_of_week)
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id                TEXT PRIMARY KEY,
		client_name       TEXT NOT NULL,
		address           TEXT,
		assigned_staff_id TEXT REFERENCES staff(id),
		scheduled_date    TEXT NOT NULL,
		scheduled_time    TEXT NOT NULL,
		status            TEXT NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
		notes             TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_date_status ON jobs (scheduled_date, status)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		staff_id    TEXT NOT NULL REFERENCES staff(id),
		token       TEXT NOT NULL UNIQUE,
		fingerprint TEXT,
		expires_at  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		revoked_at  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at)`,
}

// Migrate applies the schema to the connected database.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: migration failed: %w", err)
		}
	}
	return nil
}
