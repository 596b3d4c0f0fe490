package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/cleanops/internal/persistence"
)

type stubStaffDirectory struct {
	members    map[string]StaffMember
	hashes     map[string]string
	createErr  error
	listErr    error
	activeOnly []StaffMember
}

func newStubStaffDirectory() *stubStaffDirectory {
	return &stubStaffDirectory{
		members: make(map[string]StaffMember),
		hashes:  make(map[string]string),
	}
}

func (s *stubStaffDirectory) CreateStaff(ctx context.Context, member StaffMember, passwordHash string) (StaffMember, error) {
	if s.createErr != nil {
		return StaffMember{}, s.createErr
	}
	for _, existing := range s.members {
		if existing.Email == member.Email {
			return StaffMember{}, persistence.ErrDuplicate
		}
	}
	s.members[member.ID] = member
	s.hashes[member.ID] = passwordHash
	return member, nil
}

func (s *stubStaffDirectory) UpdateStaff(ctx context.Context, member StaffMember, passwordHash string) (StaffMember, error) {
	if _, ok := s.members[member.ID]; !ok {
		return StaffMember{}, persistence.ErrNotFound
	}
	s.members[member.ID] = member
	if passwordHash != "" {
		s.hashes[member.ID] = passwordHash
	}
	return member, nil
}

func (s *stubStaffDirectory) GetStaff(ctx context.Context, id string) (StaffMember, error) {
	member, ok := s.members[id]
	if !ok {
		return StaffMember{}, persistence.ErrNotFound
	}
	return member, nil
}

func (s *stubStaffDirectory) ListStaff(ctx context.Context) ([]StaffMember, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]StaffMember, 0, len(s.members))
	for _, member := range s.members {
		out = append(out, member)
	}
	return out, nil
}

func (s *stubStaffDirectory) ListActiveStaff(ctx context.Context) ([]StaffMember, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.activeOnly, nil
}

func fixedStaffClock() func() time.Time {
	at := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func adminPrincipal() Principal {
	return Principal{StaffID: "admin-1", IsAdmin: true}
}

func TestCreateStaffRequiresAdmin(t *testing.T) {
	t.Parallel()

	service := NewStaffService(newStubStaffDirectory(), sequentialIDs("staff-"), fixedStaffClock())

	_, err := service.CreateStaff(context.Background(), CreateStaffParams{
		Principal: Principal{StaffID: "s-1"},
		Input: StaffInput{
			Email:       "new@cleanops.example",
			DisplayName: "New Cleaner",
			Role:        persistence.RoleStaff,
			Active:      true,
			Password:    "correct horse battery staple",
		},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateStaffHashesPasswordAndNormalizesEmail(t *testing.T) {
	t.Parallel()

	directory := newStubStaffDirectory()
	service := NewStaffService(directory, sequentialIDs("staff-"), fixedStaffClock())

	created, err := service.CreateStaff(context.Background(), CreateStaffParams{
		Principal: adminPrincipal(),
		Input: StaffInput{
			Email:       "  Dana@CleanOps.example ",
			DisplayName: "Dana",
			Role:        persistence.RoleStaff,
			Active:      true,
			Password:    "correct horse battery staple",
		},
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if created.Email != "dana@cleanops.example" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}

	hash := directory.hashes[created.ID]
	if hash == "" || hash == "correct horse battery staple" {
		t.Fatal("expected a derived password hash in the store")
	}
	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected stored hash to verify: %v", err)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	t.Parallel()

	service := NewStaffService(newStubStaffDirectory(), sequentialIDs("staff-"), fixedStaffClock())

	cases := []struct {
		name  string
		input StaffInput
		field string
	}{
		{"missing email", StaffInput{DisplayName: "Dana", Role: persistence.RoleStaff, Password: "pw12345678"}, "email"},
		{"bad email", StaffInput{Email: "not-an-email", DisplayName: "Dana", Role: persistence.RoleStaff, Password: "pw12345678"}, "email"},
		{"missing display name", StaffInput{Email: "d@x.example", Role: persistence.RoleStaff, Password: "pw12345678"}, "display_name"},
		{"bad role", StaffInput{Email: "d@x.example", DisplayName: "Dana", Role: "owner", Password: "pw12345678"}, "role"},
		{"missing password", StaffInput{Email: "d@x.example", DisplayName: "Dana", Role: persistence.RoleStaff}, "password"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := service.CreateStaff(context.Background(), CreateStaffParams{Principal: adminPrincipal(), Input: tc.input})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected a %s field error, got %v", tc.field, vErr.FieldErrors)
			}
		})
	}
}

func TestCreateStaffDuplicateEmailMapsToAlreadyExists(t *testing.T) {
	t.Parallel()

	directory := newStubStaffDirectory()
	service := NewStaffService(directory, sequentialIDs("staff-"), fixedStaffClock())

	input := StaffInput{
		Email:       "dana@cleanops.example",
		DisplayName: "Dana",
		Role:        persistence.RoleStaff,
		Active:      true,
		Password:    "correct horse battery staple",
	}
	if _, err := service.CreateStaff(context.Background(), CreateStaffParams{Principal: adminPrincipal(), Input: input}); err != nil {
		t.Fatalf("first CreateStaff: %v", err)
	}
	_, err := service.CreateStaff(context.Background(), CreateStaffParams{Principal: adminPrincipal(), Input: input})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeactivateStaffFlipsActive(t *testing.T) {
	t.Parallel()

	directory := newStubStaffDirectory()
	directory.members["s-1"] = StaffMember{ID: "s-1", Email: "d@x.example", DisplayName: "Dana", Role: persistence.RoleStaff, Active: true}
	service := NewStaffService(directory, sequentialIDs("staff-"), fixedStaffClock())

	got, err := service.DeactivateStaff(context.Background(), adminPrincipal(), "s-1")
	if err != nil {
		t.Fatalf("DeactivateStaff: %v", err)
	}
	if got.Active {
		t.Fatal("expected staff member inactive")
	}
}

func TestActiveStaffReturnsRoster(t *testing.T) {
	t.Parallel()

	directory := newStubStaffDirectory()
	directory.activeOnly = []StaffMember{
		{ID: "s-1", DisplayName: "Amy", Role: persistence.RoleStaff, Active: true},
		{ID: "s-2", DisplayName: "Ben", Role: persistence.RoleStaff, Active: true},
	}
	service := NewStaffService(directory, sequentialIDs("staff-"), fixedStaffClock())

	roster, err := service.ActiveStaff(context.Background())
	if err != nil {
		t.Fatalf("ActiveStaff: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 roster members, got %d", len(roster))
	}
}
