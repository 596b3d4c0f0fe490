package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/cleanops/internal/persistence"
	"github.com/example/cleanops/internal/scheduling"
)

// JobListFilter narrows job listings at the service boundary.
type JobListFilter struct {
	ScheduledDate   string
	AssignedStaffID string
	Statuses        []scheduling.Status
}

// JobStore captures the persistence interactions needed by the job service.
type JobStore interface {
	CreateJob(ctx context.Context, job Job) (Job, error)
	UpdateJob(ctx context.Context, job Job) (Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, filter JobListFilter) ([]Job, error)
}

// JobService orchestrates validation, the status machine, and persistence for
// cleaning job bookings.
type JobService struct {
	store       JobStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewJobService wires dependencies for job operations.
func NewJobService(store JobStore, idGenerator func() string, now func() time.Time) *JobService {
	return NewJobServiceWithLogger(store, idGenerator, now, nil)
}

// NewJobServiceWithLogger constructs a JobService with a specified logger.
func NewJobServiceWithLogger(store JobStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *JobService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &JobService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *JobService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "JobService", operation, attrs...)
}

// CreateJob books a new job. New jobs always start pending.
func (s *JobService) CreateJob(ctx context.Context, params CreateJobParams) (Job, error) {
	if s == nil || s.store == nil {
		return Job{}, fmt.Errorf("job store not configured")
	}

	input := params.Input
	if vErr := validateJobInput(input); vErr.HasErrors() {
		return Job{}, vErr
	}

	now := s.now()
	job := Job{
		ID:              s.idGenerator(),
		ClientName:      strings.TrimSpace(input.ClientName),
		Address:         optionalText(input.Address),
		AssignedStaffID: input.AssignedStaffID,
		ScheduledDate:   input.ScheduledDate,
		ScheduledTime:   input.ScheduledTime,
		Status:          scheduling.StatusPending,
		Notes:           optionalText(input.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.store.CreateJob(ctx, job)
	if err != nil {
		err = mapJobRepoError(err)
		s.loggerWith(ctx, "CreateJob", "client", job.ClientName).ErrorContext(ctx, "job creation failed", "error", err, "error_kind", ErrorKind(err))
		return Job{}, err
	}

	s.loggerWith(ctx, "CreateJob", "job_id", created.ID).InfoContext(ctx, "job created")
	return created, nil
}

// UpdateJob replaces a job's booking details. Status is not touched here; use
// TransitionJob for lifecycle changes.
func (s *JobService) UpdateJob(ctx context.Context, params UpdateJobParams) (Job, error) {
	if s == nil || s.store == nil {
		return Job{}, fmt.Errorf("job store not configured")
	}

	existing, err := s.store.GetJob(ctx, params.JobID)
	if err != nil {
		return Job{}, mapJobRepoError(err)
	}

	input := params.Input
	if vErr := validateJobInput(input); vErr.HasErrors() {
		return Job{}, vErr
	}

	updated := existing
	updated.ClientName = strings.TrimSpace(input.ClientName)
	updated.Address = optionalText(input.Address)
	updated.AssignedStaffID = input.AssignedStaffID
	updated.ScheduledDate = input.ScheduledDate
	updated.ScheduledTime = input.ScheduledTime
	updated.Notes = optionalText(input.Notes)
	updated.UpdatedAt = s.now()

	persisted, err := s.store.UpdateJob(ctx, updated)
	if err != nil {
		err = mapJobRepoError(err)
		s.loggerWith(ctx, "UpdateJob", "job_id", params.JobID).ErrorContext(ctx, "job update failed", "error", err, "error_kind", ErrorKind(err))
		return Job{}, err
	}

	s.loggerWith(ctx, "UpdateJob", "job_id", persisted.ID).InfoContext(ctx, "job updated")
	return persisted, nil
}

// TransitionJob moves a job along its lifecycle. Illegal transitions are
// rejected as validation failures so callers can surface them to users.
func (s *JobService) TransitionJob(ctx context.Context, principal Principal, jobID string, target scheduling.Status) (Job, error) {
	if s == nil || s.store == nil {
		return Job{}, fmt.Errorf("job store not configured")
	}

	if _, err := scheduling.ParseStatus(string(target)); err != nil {
		vErr := &ValidationError{}
		vErr.add("status", "status must be one of pending, in_progress, completed, cancelled")
		return Job{}, vErr
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return Job{}, mapJobRepoError(err)
	}

	if !scheduling.CanTransition(job.Status, target) {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("cannot move a %s job to %s", job.Status, target))
		return Job{}, vErr
	}

	job.Status = target
	job.UpdatedAt = s.now()

	persisted, err := s.store.UpdateJob(ctx, job)
	if err != nil {
		err = mapJobRepoError(err)
		s.loggerWith(ctx, "TransitionJob", "job_id", jobID).ErrorContext(ctx, "job transition failed", "error", err, "error_kind", ErrorKind(err))
		return Job{}, err
	}

	s.loggerWith(ctx, "TransitionJob", "job_id", jobID, "status", string(target)).InfoContext(ctx, "job transitioned")
	return persisted, nil
}

// AssignStaff sets or clears the staff member assigned to a job.
func (s *JobService) AssignStaff(ctx context.Context, principal Principal, jobID string, staffID *string) (Job, error) {
	if s == nil || s.store == nil {
		return Job{}, fmt.Errorf("job store not configured")
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return Job{}, mapJobRepoError(err)
	}

	if job.Status.Terminal() {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("cannot reassign a %s job", job.Status))
		return Job{}, vErr
	}

	job.AssignedStaffID = staffID
	job.UpdatedAt = s.now()

	persisted, err := s.store.UpdateJob(ctx, job)
	if err != nil {
		err = mapJobRepoError(err)
		s.loggerWith(ctx, "AssignStaff", "job_id", jobID).ErrorContext(ctx, "job assignment failed", "error", err, "error_kind", ErrorKind(err))
		return Job{}, err
	}

	s.loggerWith(ctx, "AssignStaff", "job_id", jobID).InfoContext(ctx, "job assignment updated")
	return persisted, nil
}

// GetJob retrieves one job.
func (s *JobService) GetJob(ctx context.Context, jobID string) (Job, error) {
	if s == nil || s.store == nil {
		return Job{}, fmt.Errorf("job store not configured")
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return Job{}, mapJobRepoError(err)
	}
	return job, nil
}

// ListJobs enumerates jobs matching the filter.
func (s *JobService) ListJobs(ctx context.Context, filter JobListFilter) ([]Job, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("job store not configured")
	}
	jobs, err := s.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, mapJobRepoError(err)
	}
	return jobs, nil
}

func validateJobInput(input JobInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.ClientName) == "" {
		vErr.add("client_name", "client name is required")
	}

	if input.ScheduledDate == "" {
		vErr.add("scheduled_date", "scheduled date is required")
	} else if _, err := time.Parse("2006-01-02", input.ScheduledDate); err != nil {
		vErr.add("scheduled_date", "scheduled date must be formatted as YYYY-MM-DD")
	}

	if input.ScheduledTime == "" {
		vErr.add("scheduled_time", "scheduled time is required")
	} else if !scheduling.ValidClock(input.ScheduledTime) {
		vErr.add("scheduled_time", "scheduled time must be formatted as HH:MM")
	}

	if input.AssignedStaffID != nil && strings.TrimSpace(*input.AssignedStaffID) == "" {
		vErr.add("assigned_staff_id", "assigned staff id must not be blank")
	}

	return vErr
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapJobRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("assigned_staff_id", "assigned staff member does not exist")
		return vErr
	}
	return err
}
