package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/cleanops/internal/application"
	"github.com/example/cleanops/internal/persistence"
)

var (
	staffCounter uint64
	jobCounter   uint64
)

var referenceTime = time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// StaffFixture represents a deterministic staff record that can be
// materialised for application or persistence tests.
type StaffFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StaffOption configures the generated staff fixture.
type StaffOption func(*StaffFixture)

// NewStaffFixture returns a deterministic staff fixture with optional overrides.
func NewStaffFixture(opts ...StaffOption) StaffFixture {
	idx := atomic.AddUint64(&staffCounter, 1)
	id := fmt.Sprintf("staff-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := StaffFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@cleanops.example", id),
		DisplayName:  fmt.Sprintf("Staff %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         persistence.RoleStaff,
		Active:       true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStaffID overrides the generated staff ID.
func WithStaffID(id string) StaffOption {
	return func(f *StaffFixture) {
		f.ID = id
	}
}

// WithStaffEmail overrides the generated email address.
func WithStaffEmail(email string) StaffOption {
	return func(f *StaffFixture) {
		f.Email = email
	}
}

// WithStaffDisplayName overrides the generated display name.
func WithStaffDisplayName(name string) StaffOption {
	return func(f *StaffFixture) {
		f.DisplayName = name
	}
}

// WithStaffRole overrides the generated role.
func WithStaffRole(role string) StaffOption {
	return func(f *StaffFixture) {
		f.Role = role
	}
}

// WithStaffActive sets the active flag on the generated fixture.
func WithStaffActive(active bool) StaffOption {
	return func(f *StaffFixture) {
		f.Active = active
	}
}

// Application returns the fixture as an application.StaffMember value.
func (f StaffFixture) Application() application.StaffMember {
	return application.StaffMember{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		Role:        f.Role,
		Active:      f.Active,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.StaffMember value.
func (f StaffFixture) Persistence() persistence.StaffMember {
	return persistence.StaffMember{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		Role:         f.Role,
		Active:       f.Active,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f StaffFixture) Principal() application.Principal {
	return application.Principal{StaffID: f.ID, IsAdmin: f.Role == persistence.RoleAdmin}
}

// JobFixture represents a deterministic job booking record.
type JobFixture struct {
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

// JobOption configures the generated job fixture.
type JobOption func(*JobFixture)

// NewJobFixture returns a deterministic job fixture with optional overrides.
func NewJobFixture(opts ...JobOption) JobFixture {
	idx := atomic.AddUint64(&jobCounter, 1)
	id := fmt.Sprintf("job-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := JobFixture{
		ID:            id,
		ClientName:    fmt.Sprintf("Client %03d", idx),
		ScheduledDate: "2026-09-01",
		ScheduledTime: "09:00",
		Status:        "pending",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithJobID overrides the generated job ID.
func WithJobID(id string) JobOption {
	return func(f *JobFixture) {
		f.ID = id
	}
}

// WithJobSlot sets the scheduled date and time.
func WithJobSlot(date, timeOfDay string) JobOption {
	return func(f *JobFixture) {
		f.ScheduledDate = date
		f.ScheduledTime = timeOfDay
	}
}

// WithJobStatus overrides the generated status.
func WithJobStatus(status string) JobOption {
	return func(f *JobFixture) {
		f.Status = status
	}
}

// WithJobAssignee sets the assigned staff member.
func WithJobAssignee(staffID string) JobOption {
	return func(f *JobFixture) {
		value := staffID
		f.AssignedStaffID = &value
	}
}

// Persistence returns the fixture as a persistence.Job value.
func (f JobFixture) Persistence() persistence.Job {
	return persistence.Job{
		ID:              f.ID,
		ClientName:      f.ClientName,
		Address:         copyStringPtr(f.Address),
		AssignedStaffID: copyStringPtr(f.AssignedStaffID),
		ScheduledDate:   f.ScheduledDate,
		ScheduledTime:   f.ScheduledTime,
		Status:          f.Status,
		Notes:           copyStringPtr(f.Notes),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func copyStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
