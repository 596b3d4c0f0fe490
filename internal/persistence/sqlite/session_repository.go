package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool, helper: NewQueryHelper(pool)}
}

const sessionColumns = "id, staff_id, token, fingerprint, expires_at, created_at, updated_at, revoked_at"

// CreateSession stores a newly issued session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	query := `
		INSERT INTO sessions (id, staff_id, token, fingerprint, expires_at, created_at, updated_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		session.ID,
		session.StaffID,
		session.Token,
		session.Fingerprint,
		session.ExpiresAt.UTC().Format(time.RFC3339),
		session.CreatedAt.Format(time.RFC3339),
		session.UpdatedAt.Format(time.RFC3339),
		nullTime(session.RevokedAt),
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return r.GetSession(ctx, session.Token)
}

// GetSession retrieves a session by its opaque token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}
	row := r.helper.QueryRow(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE token = ?", token)
	return scanSession(row)
}

// RevokeSession stamps the session revoked and returns the updated record.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := "UPDATE sessions SET revoked_at = ?, updated_at = ? WHERE token = ?"
	stamp := time.Now().UTC().Format(time.RFC3339)
	result, err := r.helper.Exec(ctx, query, revokedAt.UTC().Format(time.RFC3339), stamp, token)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Session{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions removes sessions that expired before the reference time.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx, "DELETE FROM sessions WHERE expires_at < ?", reference.UTC().Format(time.RFC3339))
	return mapError(err)
}

func scanSession(scanner rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var fingerprint, revokedAt sql.NullString
	var expiresAt, createdAt, updatedAt string

	err := scanner.Scan(
		&session.ID,
		&session.StaffID,
		&session.Token,
		&fingerprint,
		&expiresAt,
		&createdAt,
		&updatedAt,
		&revokedAt,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	session.Fingerprint = fingerprint.String
	if session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if session.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if revokedAt.Valid {
		stamp, err := time.Parse(time.RFC3339, revokedAt.String)
		if err != nil {
			return persistence.Session{}, fmt.Errorf("failed to parse revoked_at: %w", err)
		}
		session.RevokedAt = &stamp
	}
	return session, nil
}

func nullTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.UTC().Format(time.RFC3339), Valid: true}
}
