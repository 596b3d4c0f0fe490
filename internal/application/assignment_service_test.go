package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cleanops/internal/scheduling"
)

type stubRoster struct {
	members []StaffMember
	err     error
	calls   int
}

func (s *stubRoster) ActiveStaff(ctx context.Context) ([]StaffMember, error) {
	s.calls++
	return s.members, s.err
}

type stubWindowSource struct {
	windows map[string]scheduling.Window
	err     error
	calls   int
}

func (s *stubWindowSource) WindowsForDay(ctx context.Context, staffIDs []string, dayOfWeek int) (map[string]scheduling.Window, error) {
	s.calls++
	return s.windows, s.err
}

type stubCommitments struct {
	slots []StaffCommitment
	err   error
	calls int
}

func (s *stubCommitments) ActiveCommitments(ctx context.Context, date string) ([]StaffCommitment, error) {
	s.calls++
	return s.slots, s.err
}

func newAssignmentFixture() (*AssignmentService, *stubRoster, *stubWindowSource, *stubCommitments) {
	roster := &stubRoster{members: []StaffMember{
		{ID: "s-1", DisplayName: "Amy"},
		{ID: "s-2", DisplayName: "Ben"},
	}}
	windows := &stubWindowSource{windows: map[string]scheduling.Window{}}
	commitments := &stubCommitments{}
	return NewAssignmentService(roster, windows, commitments, 0), roster, windows, commitments
}

func TestResolveCandidatesEmptyQuerySkipsAllFetches(t *testing.T) {
	t.Parallel()

	service, roster, windows, commitments := newAssignmentFixture()

	for _, query := range []CandidateQuery{
		{},
		{Date: "2026-09-01"},
		{TimeOfDay: "09:00"},
	} {
		got, err := service.ResolveCandidates(context.Background(), query)
		if err != nil {
			t.Fatalf("query %+v: unexpected error %v", query, err)
		}
		if len(got) != 0 {
			t.Fatalf("query %+v: expected empty candidates, got %d", query, len(got))
		}
	}

	if roster.calls != 0 || windows.calls != 0 || commitments.calls != 0 {
		t.Fatalf("expected no data fetches for incomplete queries, got roster=%d windows=%d commitments=%d",
			roster.calls, windows.calls, commitments.calls)
	}
}

func TestResolveCandidatesRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	service, roster, _, _ := newAssignmentFixture()

	_, err := service.ResolveCandidates(context.Background(), CandidateQuery{Date: "09/01/2026", TimeOfDay: "9am"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["date"]; !ok {
		t.Errorf("expected a date field error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["time"]; !ok {
		t.Errorf("expected a time field error, got %v", vErr.FieldErrors)
	}
	if roster.calls != 0 {
		t.Error("expected no roster fetch for malformed input")
	}
}

func TestResolveCandidatesRanksConflictFreeFirst(t *testing.T) {
	t.Parallel()

	service, roster, windows, commitments := newAssignmentFixture()
	roster.members = []StaffMember{
		{ID: "s-1", DisplayName: "Zoe"},
		{ID: "s-2", DisplayName: "Amy"},
		{ID: "s-3", DisplayName: "Ben"},
	}
	// Amy already has a 09:50 booking; 09:30 lands in the same hour bucket.
	commitments.slots = []StaffCommitment{{StaffID: "s-2", TimeOfDay: "09:50"}}
	// 2026-09-01 is a Tuesday.
	windows.windows = map[string]scheduling.Window{
		"s-1": {StaffID: "s-1", Day: 2, Start: "09:00", End: "17:00", Available: true},
		"s-2": {StaffID: "s-2", Day: 2, Start: "09:00", End: "17:00", Available: true},
		"s-3": {StaffID: "s-3", Day: 2, Start: "09:00", End: "17:00", Available: true},
	}

	got, err := service.ResolveCandidates(context.Background(), CandidateQuery{Date: "2026-09-01", TimeOfDay: "09:30"})
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}

	wantOrder := []string{"Ben", "Zoe", "Amy"}
	for i, name := range wantOrder {
		if got[i].DisplayName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].DisplayName)
		}
	}
	if got[2].Conflict != true || got[2].SameHourBooking != true {
		t.Errorf("expected Amy flagged with a same-hour conflict, got %+v", got[2])
	}
}

func TestResolveCandidatesRosterFailureYieldsEmptyList(t *testing.T) {
	t.Parallel()

	service, roster, windows, commitments := newAssignmentFixture()
	roster.err = errors.New("connection refused")

	got, err := service.ResolveCandidates(context.Background(), CandidateQuery{Date: "2026-09-01", TimeOfDay: "09:00"})
	if err != nil {
		t.Fatalf("expected degraded empty result, got error %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty candidates, got %d", len(got))
	}
	if windows.calls != 0 || commitments.calls != 0 {
		t.Error("expected downstream fetches to be skipped after roster failure")
	}
}

func TestResolveCandidatesBookingFailureYieldsEmptyList(t *testing.T) {
	t.Parallel()

	service, _, _, commitments := newAssignmentFixture()
	commitments.err = errors.New("connection refused")

	got, err := service.ResolveCandidates(context.Background(), CandidateQuery{Date: "2026-09-01", TimeOfDay: "09:00"})
	if err != nil {
		t.Fatalf("expected degraded empty result, got error %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty candidates, got %d", len(got))
	}
}

func TestResolveCandidatesAvailabilityFailureFailsOpen(t *testing.T) {
	t.Parallel()

	service, _, windows, _ := newAssignmentFixture()
	windows.err = errors.New("connection refused")

	got, err := service.ResolveCandidates(context.Background(), CandidateQuery{Date: "2026-09-01", TimeOfDay: "09:00"})
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the full roster, got %d candidates", len(got))
	}
	for _, c := range got {
		if c.Conflict {
			t.Errorf("expected %s conflict-free with no schedule data, got %+v", c.DisplayName, c)
		}
	}
}

func TestLatestCandidatesKeepsNewestQuery(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newAssignmentFixture()

	if _, _, ok := service.LatestCandidates(); ok {
		t.Fatal("expected no published view before the first query")
	}

	first := CandidateQuery{Date: "2026-09-01", TimeOfDay: "09:00"}
	second := CandidateQuery{Date: "2026-09-02", TimeOfDay: "14:00"}

	firstResult, err := service.ResolveCandidates(context.Background(), first)
	if err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}
	if _, err := service.ResolveCandidates(context.Background(), second); err != nil {
		t.Fatalf("ResolveCandidates: %v", err)
	}

	// A slow response from the first query must not displace the second.
	service.publish(1, first, firstResult)

	query, _, ok := service.LatestCandidates()
	if !ok {
		t.Fatal("expected a published view")
	}
	if query != second {
		t.Fatalf("expected latest view for %+v, got %+v", second, query)
	}
}
