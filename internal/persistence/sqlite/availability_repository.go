package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

// AvailabilityRepository implements persistence.AvailabilityRepository using SQLite.
type AvailabilityRepository struct {
	pool        *ConnectionPool
	helper      *QueryHelper
	idGenerator func() string
}

// NewAvailabilityRepository creates a new SQLite availability repository. The
// idGenerator assigns identifiers to rows inserted for the first time.
func NewAvailabilityRepository(pool *ConnectionPool, idGenerator func() string) *AvailabilityRepository {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &AvailabilityRepository{pool: pool, helper: NewQueryHelper(pool), idGenerator: idGenerator}
}

const windowColumns = "id, staff_id, day_of_week, start_time, end_time, is_available, created_at, updated_at"

// ListWindows returns the persisted windows for one staff member ordered by
// day of week. Staff with no saved schedule yield an empty result.
func (r *AvailabilityRepository) ListWindows(ctx context.Context, staffID string) ([]persistence.AvailabilityWindow, error) {
	query := "SELECT " + windowColumns + " FROM availability_windows WHERE staff_id = ? ORDER BY day_of_week ASC"
	rows, err := r.helper.Query(ctx, query, staffID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var windows []persistence.AvailabilityWindow
	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return windows, nil
}

// WindowsForDay returns at most one window per staff member for the given day,
// keyed by staff ID.
func (r *AvailabilityRepository) WindowsForDay(ctx context.Context, staffIDs []string, dayOfWeek int) (map[string]persistence.AvailabilityWindow, error) {
	result := make(map[string]persistence.AvailabilityWindow, len(staffIDs))
	if len(staffIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(staffIDs))
	args := make([]any, 0, len(staffIDs)+1)
	for i, id := range staffIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, dayOfWeek)

	query := fmt.Sprintf(
		"SELECT %s FROM availability_windows WHERE staff_id IN (%s) AND day_of_week = ?",
		windowColumns, strings.Join(placeholders, ","),
	)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		result[window.StaffID] = window
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// SaveWeek upserts the full week for one staff member inside a single
// transaction. The upsert is keyed on (staff_id, day_of_week) so a retry is
// idempotent, and no row is ever deleted: a failure mid-operation leaves the
// previously saved schedule intact.
func (r *AvailabilityRepository) SaveWeek(ctx context.Context, staffID string, windows []persistence.AvailabilityWindow) error {
	if staffID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC().Format(time.RFC3339)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO availability_windows
				(id, staff_id, day_of_week, start_time, end_time, is_available, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (staff_id, day_of_week) DO UPDATE SET
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				is_available = excluded.is_available,
				updated_at = excluded.updated_at
		`
		for _, window := range windows {
			id := window.ID
			if id == "" {
				id = r.idGenerator()
			}
			_, err := r.helper.ExecTx(tx, query,
				id,
				staffID,
				window.DayOfWeek,
				window.StartTime,
				window.EndTime,
				boolToInt(window.Available),
				now,
				now,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

func scanWindow(scanner rowScanner) (persistence.AvailabilityWindow, error) {
	var window persistence.AvailabilityWindow
	var available int
	var createdAt, updatedAt string

	err := scanner.Scan(
		&window.ID,
		&window.StaffID,
		&window.DayOfWeek,
		&window.StartTime,
		&window.EndTime,
		&available,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.AvailabilityWindow{}, mapError(err)
	}

	window.Available = available != 0
	if window.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.AvailabilityWindow{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if window.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.AvailabilityWindow{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return window, nil
}
