package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cleanops/internal/scheduling"
)

type stubAvailabilityStore struct {
	windows   []scheduling.Window
	listErr   error
	saveErr   error
	saved     [][]scheduling.Window
	listCalls int
}

func (s *stubAvailabilityStore) ListWindows(ctx context.Context, staffID string) ([]scheduling.Window, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]scheduling.Window, len(s.windows))
	copy(out, s.windows)
	return out, nil
}

func (s *stubAvailabilityStore) SaveWeek(ctx context.Context, staffID string, week []scheduling.Window) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	snapshot := make([]scheduling.Window, len(week))
	copy(snapshot, week)
	s.saved = append(s.saved, snapshot)
	s.windows = snapshot
	return nil
}

func TestAvailabilityServiceWeekDefaultsWhenNothingStored(t *testing.T) {
	t.Parallel()

	service := NewAvailabilityService(&stubAvailabilityStore{})

	week := service.Week(context.Background(), "staff-1")
	if len(week) != scheduling.DaysPerWeek {
		t.Fatalf("expected %d windows, got %d", scheduling.DaysPerWeek, len(week))
	}
	for _, w := range week {
		if w.Origin != scheduling.OriginDefault {
			t.Errorf("day %d: expected default origin", w.Day)
		}
		if w.Start != "09:00" || w.End != "17:00" {
			t.Errorf("day %d: expected 09:00-17:00, got %s-%s", w.Day, w.Start, w.End)
		}
	}
	if week[0].Available || week[6].Available {
		t.Error("expected weekend days to default to unavailable")
	}
	if !week[1].Available || !week[5].Available {
		t.Error("expected weekdays to default to available")
	}
}

func TestAvailabilityServiceWeekOverlaysStoredRows(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{
		windows: []scheduling.Window{
			{ID: "w-3", StaffID: "staff-1", Day: 3, Start: "12:00", End: "20:00", Available: true},
		},
	}
	service := NewAvailabilityService(store)

	week := service.Week(context.Background(), "staff-1")
	if week[3].ID != "w-3" || week[3].Start != "12:00" {
		t.Fatalf("expected stored wednesday row to win, got %+v", week[3])
	}
	if week[3].Origin != scheduling.OriginPersisted {
		t.Error("expected stored row to be marked persisted")
	}
	if week[2].Origin != scheduling.OriginDefault {
		t.Error("expected untouched day to stay default")
	}
}

func TestAvailabilityServiceWeekLoadFailureYieldsEmptySchedule(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{listErr: errors.New("disk unplugged")}
	service := NewAvailabilityService(store)

	week := service.Week(context.Background(), "staff-1")
	if week == nil {
		t.Fatal("expected empty schedule, got nil")
	}
	if len(week) != 0 {
		t.Fatalf("expected empty schedule on load failure, got %d windows", len(week))
	}
}

func TestAvailabilityServiceSaveWeekRejectsOtherStaff(t *testing.T) {
	t.Parallel()

	service := NewAvailabilityService(&stubAvailabilityStore{})

	week := scheduling.DefaultWeek("staff-2")
	_, err := service.SaveWeek(context.Background(), Principal{StaffID: "staff-1"}, "staff-2", week)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAvailabilityServiceSaveWeekAllowsAdminForAnyStaff(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{}
	service := NewAvailabilityService(store)

	week := scheduling.DefaultWeek("staff-2")
	if _, err := service.SaveWeek(context.Background(), Principal{StaffID: "admin-1", IsAdmin: true}, "staff-2", week); err != nil {
		t.Fatalf("SaveWeek: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(store.saved))
	}
}

func TestAvailabilityServiceSaveWeekRejectsMalformedWeek(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{}
	service := NewAvailabilityService(store)

	week := scheduling.DefaultWeek("staff-1")
	week[2].Start = "9:00"

	_, err := service.SaveWeek(context.Background(), Principal{StaffID: "staff-1"}, "staff-1", week)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["day_2"]; !ok {
		t.Errorf("expected a day_2 field error, got %v", vErr.FieldErrors)
	}
	if len(store.saved) != 0 {
		t.Error("expected no save attempt for an invalid week")
	}
}

func TestAvailabilityServiceSaveWeekRoundTripsThroughReload(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{}
	service := NewAvailabilityService(store)

	week := scheduling.DefaultWeek("staff-1")
	week = scheduling.ToggleDay(week, 6)
	week = scheduling.SetHours(week, 6, "10:00", "14:00")

	saved, err := service.SaveWeek(context.Background(), Principal{StaffID: "staff-1"}, "staff-1", week)
	if err != nil {
		t.Fatalf("SaveWeek: %v", err)
	}
	if len(saved) != scheduling.DaysPerWeek {
		t.Fatalf("expected a full week back, got %d windows", len(saved))
	}
	if !saved[6].Available || saved[6].Start != "10:00" || saved[6].End != "14:00" {
		t.Fatalf("expected saturday edits to survive the round trip, got %+v", saved[6])
	}
	if store.listCalls == 0 {
		t.Error("expected a reload after save")
	}
}

func TestAvailabilityServiceSaveWeekSurfacesStoreFailure(t *testing.T) {
	t.Parallel()

	store := &stubAvailabilityStore{saveErr: errors.New("database locked")}
	service := NewAvailabilityService(store)

	week := scheduling.DefaultWeek("staff-1")
	_, err := service.SaveWeek(context.Background(), Principal{StaffID: "staff-1"}, "staff-1", week)
	if err == nil {
		t.Fatal("expected save failure to surface")
	}
	if len(store.saved) != 0 {
		t.Error("expected nothing recorded as saved")
	}
}
