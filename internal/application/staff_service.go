package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

// StaffDirectory captures the persistence interactions needed by the staff service.
type StaffDirectory interface {
	CreateStaff(ctx context.Context, member StaffMember, passwordHash string) (StaffMember, error)
	// UpdateStaff replaces the stored record. An empty passwordHash keeps the
	// current credential.
	UpdateStaff(ctx context.Context, member StaffMember, passwordHash string) (StaffMember, error)
	GetStaff(ctx context.Context, id string) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
	ListActiveStaff(ctx context.Context) ([]StaffMember, error)
}

// StaffService orchestrates validation and persistence for the staff directory.
// Its ActiveStaff listing is the assignment roster: only active staff-role
// members are eligible candidates.
type StaffService struct {
	directory   StaffDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewStaffService wires dependencies for staff directory operations.
func NewStaffService(directory StaffDirectory, idGenerator func() string, now func() time.Time) *StaffService {
	return NewStaffServiceWithLogger(directory, idGenerator, now, nil)
}

// NewStaffServiceWithLogger constructs a StaffService with a specified logger.
func NewStaffServiceWithLogger(directory StaffDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *StaffService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &StaffService{
		directory:   directory,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *StaffService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "StaffService", operation, attrs...)
}

// CreateStaff registers a new staff member. Only admins may mutate the directory.
func (s *StaffService) CreateStaff(ctx context.Context, params CreateStaffParams) (StaffMember, error) {
	if s == nil || s.directory == nil {
		return StaffMember{}, fmt.Errorf("staff directory not configured")
	}
	if !params.Principal.IsAdmin {
		return StaffMember{}, ErrUnauthorized
	}

	input := params.Input
	vErr := &ValidationError{}
	validateStaffCore(input, vErr)
	if strings.TrimSpace(input.Password) == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		return StaffMember{}, vErr
	}

	hash, err := CreatePasswordHash(input.Password, DefaultArgon2idParams)
	if err != nil {
		return StaffMember{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	member := StaffMember{
		ID:          s.idGenerator(),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        input.Role,
		Active:      input.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.directory.CreateStaff(ctx, member, hash)
	if err != nil {
		err = mapStaffRepoError(err)
		s.loggerWith(ctx, "CreateStaff", "email", member.Email).ErrorContext(ctx, "staff creation failed", "error", err, "error_kind", ErrorKind(err))
		return StaffMember{}, err
	}

	s.loggerWith(ctx, "CreateStaff", "staff_id", created.ID).InfoContext(ctx, "staff member created")
	return created, nil
}

// UpdateStaff applies validation and authorization before updating the directory.
func (s *StaffService) UpdateStaff(ctx context.Context, params UpdateStaffParams) (StaffMember, error) {
	if s == nil || s.directory == nil {
		return StaffMember{}, fmt.Errorf("staff directory not configured")
	}
	if !params.Principal.IsAdmin {
		return StaffMember{}, ErrUnauthorized
	}

	existing, err := s.directory.GetStaff(ctx, params.StaffID)
	if err != nil {
		return StaffMember{}, mapStaffRepoError(err)
	}

	input := params.Input
	vErr := &ValidationError{}
	validateStaffCore(input, vErr)
	if vErr.HasErrors() {
		return StaffMember{}, vErr
	}

	hash := ""
	if strings.TrimSpace(input.Password) != "" {
		hash, err = CreatePasswordHash(input.Password, DefaultArgon2idParams)
		if err != nil {
			return StaffMember{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	updated := existing
	updated.Email = strings.ToLower(strings.TrimSpace(input.Email))
	updated.DisplayName = strings.TrimSpace(input.DisplayName)
	updated.Role = input.Role
	updated.Active = input.Active
	updated.UpdatedAt = s.now()

	persisted, err := s.directory.UpdateStaff(ctx, updated, hash)
	if err != nil {
		err = mapStaffRepoError(err)
		s.loggerWith(ctx, "UpdateStaff", "staff_id", params.StaffID).ErrorContext(ctx, "staff update failed", "error", err, "error_kind", ErrorKind(err))
		return StaffMember{}, err
	}

	s.loggerWith(ctx, "UpdateStaff", "staff_id", persisted.ID).InfoContext(ctx, "staff member updated")
	return persisted, nil
}

// DeactivateStaff marks a staff member inactive, removing them from the roster
// without deleting their history.
func (s *StaffService) DeactivateStaff(ctx context.Context, principal Principal, staffID string) (StaffMember, error) {
	if s == nil || s.directory == nil {
		return StaffMember{}, fmt.Errorf("staff directory not configured")
	}
	if !principal.IsAdmin {
		return StaffMember{}, ErrUnauthorized
	}

	existing, err := s.directory.GetStaff(ctx, staffID)
	if err != nil {
		return StaffMember{}, mapStaffRepoError(err)
	}

	existing.Active = false
	existing.UpdatedAt = s.now()

	persisted, err := s.directory.UpdateStaff(ctx, existing, "")
	if err != nil {
		return StaffMember{}, mapStaffRepoError(err)
	}

	s.loggerWith(ctx, "DeactivateStaff", "staff_id", staffID).InfoContext(ctx, "staff member deactivated")
	return persisted, nil
}

// GetStaff retrieves one staff member.
func (s *StaffService) GetStaff(ctx context.Context, staffID string) (StaffMember, error) {
	if s == nil || s.directory == nil {
		return StaffMember{}, fmt.Errorf("staff directory not configured")
	}
	member, err := s.directory.GetStaff(ctx, staffID)
	if err != nil {
		return StaffMember{}, mapStaffRepoError(err)
	}
	return member, nil
}

// ListStaff enumerates the whole directory.
func (s *StaffService) ListStaff(ctx context.Context) ([]StaffMember, error) {
	if s == nil || s.directory == nil {
		return nil, fmt.Errorf("staff directory not configured")
	}
	members, err := s.directory.ListStaff(ctx)
	if err != nil {
		return nil, mapStaffRepoError(err)
	}
	return members, nil
}

// ActiveStaff returns the assignment roster: active staff-role members only.
// Deactivated or role-revoked members never appear, even as conflicted options.
func (s *StaffService) ActiveStaff(ctx context.Context) ([]StaffMember, error) {
	if s == nil || s.directory == nil {
		return nil, fmt.Errorf("staff directory not configured")
	}
	members, err := s.directory.ListActiveStaff(ctx)
	if err != nil {
		return nil, mapStaffRepoError(err)
	}
	return members, nil
}

func validateStaffCore(input StaffInput, vErr *ValidationError) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}

	switch input.Role {
	case persistence.RoleStaff, persistence.RoleAdmin:
	default:
		vErr.add("role", "role must be staff or admin")
	}
}

func mapStaffRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
