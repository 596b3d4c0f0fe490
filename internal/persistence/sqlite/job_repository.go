package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

// JobRepository implements persistence.JobRepository using SQLite.
type JobRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
}

// NewJobRepository creates a new SQLite job repository.
func NewJobRepository(pool *ConnectionPool) *JobRepository {
	return &JobRepository{pool: pool, helper: NewQueryHelper(pool)}
}

const jobColumns = "id, client_name, address, assigned_staff_id, scheduled_date, scheduled_time, status, notes, created_at, updated_at"

// CreateJob inserts a new job booking.
func (r *JobRepository) CreateJob(ctx context.Context, job persistence.Job) error {
	if job.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	query := `
		INSERT INTO jobs (id, client_name, address, assigned_staff_id, scheduled_date, scheduled_time, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		job.ID,
		job.ClientName,
		nullString(job.Address),
		nullString(job.AssignedStaffID),
		job.ScheduledDate,
		job.ScheduledTime,
		job.Status,
		nullString(job.Notes),
		job.CreatedAt.Format(time.RFC3339),
		job.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateJob updates an existing job booking.
func (r *JobRepository) UpdateJob(ctx context.Context, job persistence.Job) error {
	if job.ID == "" {
		return persistence.ErrNotFound
	}

	job.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE jobs
		SET client_name = ?, address = ?, assigned_staff_id = ?, scheduled_date = ?, scheduled_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		job.ClientName,
		nullString(job.Address),
		nullString(job.AssignedStaffID),
		job.ScheduledDate,
		job.ScheduledTime,
		job.Status,
		nullString(job.Notes),
		job.UpdatedAt.Format(time.RFC3339),
		job.ID,
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

// GetJob retrieves a job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id string) (persistence.Job, error) {
	if id == "" {
		return persistence.Job{}, persistence.ErrNotFound
	}
	row := r.helper.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	return scanJob(row)
}

// ListJobs lists jobs narrowed by the provided filter, ordered by date then time.
func (r *JobRepository) ListJobs(ctx context.Context, filter persistence.JobFilter) ([]persistence.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs"

	var conditions []string
	var args []any

	if filter.ScheduledDate != "" {
		conditions = append(conditions, "scheduled_date = ?")
		args = append(args, filter.ScheduledDate)
	}
	if filter.AssignedStaffID != "" {
		conditions = append(conditions, "assigned_staff_id = ?")
		args = append(args, filter.AssignedStaffID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_date ASC, scheduled_time ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var jobs []persistence.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return jobs, nil
}

// ActiveSlotsOnDate returns the staff commitments for all assigned jobs on the
// date whose status still occupies staff time.
func (r *JobRepository) ActiveSlotsOnDate(ctx context.Context, date string) ([]persistence.JobSlot, error) {
	query := `
		SELECT assigned_staff_id, scheduled_time
		FROM jobs
		WHERE scheduled_date = ?
		  AND status IN ('pending', 'in_progress')
		  AND assigned_staff_id IS NOT NULL
		ORDER BY scheduled_time ASC, id ASC
	`
	rows, err := r.helper.Query(ctx, query, date)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []persistence.JobSlot
	for rows.Next() {
		var slot persistence.JobSlot
		if err := rows.Scan(&slot.AssignedStaffID, &slot.ScheduledTime); err != nil {
			return nil, mapError(err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return slots, nil
}

func scanJob(scanner rowScanner) (persistence.Job, error) {
	var job persistence.Job
	var address, assignedStaffID, notes sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&job.ID,
		&job.ClientName,
		&address,
		&assignedStaffID,
		&job.ScheduledDate,
		&job.ScheduledTime,
		&job.Status,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Job{}, mapError(err)
	}

	if address.Valid {
		job.Address = &address.String
	}
	if assignedStaffID.Valid {
		job.AssignedStaffID = &assignedStaffID.String
	}
	if notes.Valid {
		job.Notes = &notes.String
	}

	if job.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Job{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if job.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Job{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return job, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
