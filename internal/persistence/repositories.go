package persistence

import (
	"context"
	"time"
)

// StaffRepository exposes CRUD operations for staff members.
type StaffRepository interface {
	CreateStaff(ctx context.Context, member StaffMember) error
	UpdateStaff(ctx context.Context, member StaffMember) error
	GetStaff(ctx context.Context, id string) (StaffMember, error)
	GetStaffByEmail(ctx context.Context, email string) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
	// ListActiveStaff returns active staff-role members only; deactivated or
	// role-revoked members are excluded entirely.
	ListActiveStaff(ctx context.Context) ([]StaffMember, error)
}

// AvailabilityRepository stores per-weekday availability windows.
type AvailabilityRepository interface {
	// ListWindows returns the persisted windows for one staff member, ordered
	// by day of week. Staff with no saved schedule yield an empty slice, not
	// an error.
	ListWindows(ctx context.Context, staffID string) ([]AvailabilityWindow, error)
	// WindowsForDay returns at most one window per staff member for the given
	// day of week, keyed by staff ID. Staff without a row for that day are
	// simply absent from the map.
	WindowsForDay(ctx context.Context, staffIDs []string, dayOfWeek int) (map[string]AvailabilityWindow, error)
	// SaveWeek upserts a full seven-row week for one staff member in a single
	// transaction, keyed on (staff_id, day_of_week). Existing rows keep their
	// identity; the operation is idempotent and never deletes before writing.
	SaveWeek(ctx context.Context, staffID string, windows []AvailabilityWindow) error
}

// JobFilter narrows job listings.
type JobFilter struct {
	ScheduledDate   string
	AssignedStaffID string
	Statuses        []string
}

// JobRepository stores job bookings.
type JobRepository interface {
	CreateJob(ctx context.Context, job Job) error
	UpdateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	// ActiveSlotsOnDate returns the (staff, time) commitments for all assigned
	// jobs on the date whose status still occupies staff time.
	ActiveSlotsOnDate(ctx context.Context, date string) ([]JobSlot, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
