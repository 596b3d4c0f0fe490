package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

// StaffRepository implements persistence.StaffRepository using SQLite.
type StaffRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
}

// NewStaffRepository creates a new SQLite staff repository.
func NewStaffRepository(pool *ConnectionPool) *StaffRepository {
	return &StaffRepository{pool: pool, helper: NewQueryHelper(pool)}
}

const staffColumns = "id, email, display_name, password_hash, role, active, created_at, updated_at"

// CreateStaff inserts a new staff member.
func (r *StaffRepository) CreateStaff(ctx context.Context, member persistence.StaffMember) error {
	if member.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	query := `
		INSERT INTO staff (id, email, display_name, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		member.ID,
		strings.ToLower(strings.TrimSpace(member.Email)),
		member.DisplayName,
		member.PasswordHash,
		member.Role,
		boolToInt(member.Active),
		member.CreatedAt.Format(time.RFC3339),
		member.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateStaff updates an existing staff member.
func (r *StaffRepository) UpdateStaff(ctx context.Context, member persistence.StaffMember) error {
	if member.ID == "" {
		return persistence.ErrNotFound
	}

	member.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE staff
		SET email = ?, display_name = ?, password_hash = ?, role = ?, active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		strings.ToLower(strings.TrimSpace(member.Email)),
		member.DisplayName,
		member.PasswordHash,
		member.Role,
		boolToInt(member.Active),
		member.UpdatedAt.Format(time.RFC3339),
		member.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetStaff retrieves a staff member by ID.
func (r *StaffRepository) GetStaff(ctx context.Context, id string) (persistence.StaffMember, error) {
	if id == "" {
		return persistence.StaffMember{}, persistence.ErrNotFound
	}
	row := r.helper.QueryRow(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", id)
	return scanStaff(row)
}

// GetStaffByEmail retrieves a staff member by email address.
func (r *StaffRepository) GetStaffByEmail(ctx context.Context, email string) (persistence.StaffMember, error) {
	row := r.helper.QueryRow(ctx, "SELECT "+staffColumns+" FROM staff WHERE email = ?", strings.ToLower(strings.TrimSpace(email)))
	return scanStaff(row)
}

// ListStaff returns all staff members ordered by display name.
func (r *StaffRepository) ListStaff(ctx context.Context) ([]persistence.StaffMember, error) {
	return r.listStaff(ctx, "SELECT "+staffColumns+" FROM staff ORDER BY display_name ASC, id ASC")
}

// ListActiveStaff returns active staff-role members only.
func (r *StaffRepository) ListActiveStaff(ctx context.Context) ([]persistence.StaffMember, error) {
	return r.listStaff(ctx, "SELECT "+staffColumns+" FROM staff WHERE active = 1 AND role = 'staff' ORDER BY display_name ASC, id ASC")
}

func (r *StaffRepository) listStaff(ctx context.Context, query string) ([]persistence.StaffMember, error) {
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var members []persistence.StaffMember
	for rows.Next() {
		member, err := scanStaffRows(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return members, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row *sql.Row) (persistence.StaffMember, error) {
	return scanStaffRows(row)
}

func scanStaffRows(scanner rowScanner) (persistence.StaffMember, error) {
	var member persistence.StaffMember
	var active int
	var createdAt, updatedAt string

	err := scanner.Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.PasswordHash,
		&member.Role,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.StaffMember{}, mapError(err)
	}

	member.Active = active != 0
	if member.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.StaffMember{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if member.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.StaffMember{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return member, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
