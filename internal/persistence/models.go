package persistence

import "time"

// StaffMember represents an employee account in the operations domain.
type StaffMember struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Staff roles. Admins run the office and may edit on behalf of cleaners;
// only staff-role members appear on the assignment roster.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// AvailabilityWindow is one persisted per-weekday availability declaration.
// DayOfWeek runs 0-6 with 0 = Sunday; StartTime and EndTime are zero-padded
// local "HH:MM" values. At most one row exists per (StaffID, DayOfWeek).
type AvailabilityWindow struct {
	ID        string
	StaffID   string
	DayOfWeek int
	StartTime string
	EndTime   string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job represents a cleaning job booking. ScheduledDate is a local
// "YYYY-MM-DD" calendar date and ScheduledTime a "HH:MM" clock value;
// AssignedStaffID is nil while the job is unassigned.
type Job struct {
	ID              string
	ClientName      string
	Address         *string
	AssignedStaffID *string
	ScheduledDate   string
	ScheduledTime   string
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobSlot is the projection of a job the conflict resolver consumes: who is
// committed and at what clock value.
type JobSlot struct {
	AssignedStaffID string
	ScheduledTime   string
}

// Session represents an authentication session persisted for a staff member.
type Session struct {
	ID          string
	StaffID     string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}
