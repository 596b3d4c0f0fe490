package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/cleanops/internal/persistence"
	"github.com/example/cleanops/internal/scheduling"
)

// AvailabilityStore captures the persistence interactions needed by the
// availability service.
type AvailabilityStore interface {
	ListWindows(ctx context.Context, staffID string) ([]scheduling.Window, error)
	// SaveWeek upserts the full seven-day week atomically. Existing rows keep
	// their identifiers; days never stored before gain new ones.
	SaveWeek(ctx context.Context, staffID string, week []scheduling.Window) error
}

// AvailabilityService loads and saves weekly availability schedules. A staff
// member with no stored rows is treated as having the default week, not as an
// error.
type AvailabilityService struct {
	store  AvailabilityStore
	logger *slog.Logger
}

// NewAvailabilityService wires dependencies for availability operations.
func NewAvailabilityService(store AvailabilityStore) *AvailabilityService {
	return NewAvailabilityServiceWithLogger(store, nil)
}

// NewAvailabilityServiceWithLogger constructs an AvailabilityService with a
// specified logger.
func NewAvailabilityServiceWithLogger(store AvailabilityStore, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		logger: defaultLogger(logger),
	}
}

func (s *AvailabilityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AvailabilityService", operation, attrs...)
}

// Week returns the staff member's full seven-day schedule: stored rows overlay
// the defaults. A load failure is logged and reported as an empty schedule so
// callers can render a retriable blank state instead of failing outright.
func (s *AvailabilityService) Week(ctx context.Context, staffID string) []scheduling.Window {
	if s == nil || s.store == nil {
		return nil
	}

	stored, err := s.store.ListWindows(ctx, staffID)
	if err != nil {
		s.loggerWith(ctx, "Week", "staff_id", staffID).ErrorContext(ctx, "availability load failed", "error", err, "error_kind", ErrorKind(err))
		return []scheduling.Window{}
	}

	return scheduling.MergeWeek(staffID, stored)
}

// SaveWeek validates and persists a full week for a staff member. Staff may
// only edit their own schedule; admins may edit anyone's. On success the week
// is re-read so callers observe server-assigned identifiers.
func (s *AvailabilityService) SaveWeek(ctx context.Context, principal Principal, staffID string, week []scheduling.Window) ([]scheduling.Window, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("availability store not configured")
	}
	if !principal.IsAdmin && principal.StaffID != staffID {
		return nil, ErrUnauthorized
	}

	if problems := scheduling.ValidateWeek(week); len(problems) > 0 {
		vErr := &ValidationError{}
		vErr.addAll(problems)
		return nil, vErr
	}

	if err := s.store.SaveWeek(ctx, staffID, week); err != nil {
		err = mapAvailabilityRepoError(err)
		s.loggerWith(ctx, "SaveWeek", "staff_id", staffID).ErrorContext(ctx, "availability save failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	s.loggerWith(ctx, "SaveWeek", "staff_id", staffID).InfoContext(ctx, "availability saved")

	stored, err := s.store.ListWindows(ctx, staffID)
	if err != nil {
		// The save committed; reload is best-effort. Hand back the input week
		// so the caller still has a coherent schedule.
		s.loggerWith(ctx, "SaveWeek", "staff_id", staffID).WarnContext(ctx, "availability reload after save failed", "error", err)
		return week, nil
	}

	return scheduling.MergeWeek(staffID, stored), nil
}

func mapAvailabilityRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("staff_id", "staff member does not exist")
		return vErr
	}
	return err
}
