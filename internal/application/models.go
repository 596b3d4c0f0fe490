package application

import (
	"time"

	"github.com/example/cleanops/internal/scheduling"
)

// Principal represents the authenticated staff member invoking a service method.
type Principal struct {
	StaffID string
	IsAdmin bool
}

// StaffMember represents a staff account exposed to callers. The password hash
// never leaves the credential store.
type StaffMember struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StaffInput captures caller provided staff fields.
type StaffInput struct {
	Email       string
	DisplayName string
	Role        string
	Active      bool
	Password    string
}

// CreateStaffParams wraps the data required to create a staff member.
type CreateStaffParams struct {
	Principal Principal
	Input     StaffInput
}

// UpdateStaffParams wraps the data required to update a staff member.
type UpdateStaffParams struct {
	Principal Principal
	StaffID   string
	Input     StaffInput
}

// StaffCredentials pairs a staff member with their stored password hash for
// authentication.
type StaffCredentials struct {
	Member       StaffMember
	PasswordHash string
}

// Session represents an issued authentication session.
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

// AuthenticateParams carries a login attempt.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult carries a successful login outcome.
type AuthenticateResult struct {
	Member  StaffMember
	Session Session
}

// JobInput captures caller provided job fields.
type JobInput struct {
	ClientName      string
	Address         string
	AssignedStaffID *string
	ScheduledDate   string
	ScheduledTime   string
	Notes           string
}

// Job represents a cleaning job booking exposed to callers.
type Job struct {
	ID              string
	ClientName      string
	Address         *string
	AssignedStaffID *string
	ScheduledDate   string
	ScheduledTime   string
	Status          scheduling.Status
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateJobParams wraps the data required to create a job.
type CreateJobParams struct {
	Principal Principal
	Input     JobInput
}

// UpdateJobParams wraps the data required to update a job.
type UpdateJobParams struct {
	Principal Principal
	JobID     string
	Input     JobInput
}

// CandidateQuery identifies the slot a caller wants candidates for.
type CandidateQuery struct {
	Date      string
	TimeOfDay string
}

// Empty reports whether the query is incomplete. An incomplete query is a
// valid "no query" state, not an error.
func (q CandidateQuery) Empty() bool {
	return q.Date == "" || q.TimeOfDay == ""
}
