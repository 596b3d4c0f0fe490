package application

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/cleanops/internal/scheduling"
)

// RosterProvider supplies the assignment roster.
type RosterProvider interface {
	ActiveStaff(ctx context.Context) ([]StaffMember, error)
}

// DayWindowSource supplies at most one availability window per staff member
// for a given day of week.
type DayWindowSource interface {
	WindowsForDay(ctx context.Context, staffIDs []string, dayOfWeek int) (map[string]scheduling.Window, error)
}

// StaffCommitment is one staff member's booked time on a date.
type StaffCommitment struct {
	StaffID   string
	TimeOfDay string
}

// CommitmentSource supplies the active (pending or in-progress) assigned
// bookings on a date. Completed and cancelled jobs never appear.
type CommitmentSource interface {
	ActiveCommitments(ctx context.Context, date string) ([]StaffCommitment, error)
}

// AssignmentService evaluates every active staff member against a requested
// job slot and produces a ranked candidate list. Degraded data is handled
// fail-open: missing schedules count as available, and a roster or booking
// fetch failure yields an empty list rather than an error.
type AssignmentService struct {
	roster      RosterProvider
	windows     DayWindowSource
	commitments CommitmentSource

	fetchTimeout time.Duration
	logger       *slog.Logger

	seq    atomic.Uint64
	viewMu sync.Mutex
	view   candidateView
}

type candidateView struct {
	token      uint64
	query      CandidateQuery
	candidates []scheduling.Candidate
}

// NewAssignmentService wires dependencies for candidate resolution. A zero
// fetchTimeout disables the per-query deadline.
func NewAssignmentService(roster RosterProvider, windows DayWindowSource, commitments CommitmentSource, fetchTimeout time.Duration) *AssignmentService {
	return NewAssignmentServiceWithLogger(roster, windows, commitments, fetchTimeout, nil)
}

// NewAssignmentServiceWithLogger constructs an AssignmentService with a
// specified logger.
func NewAssignmentServiceWithLogger(roster RosterProvider, windows DayWindowSource, commitments CommitmentSource, fetchTimeout time.Duration, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{
		roster:       roster,
		windows:      windows,
		commitments:  commitments,
		fetchTimeout: fetchTimeout,
		logger:       defaultLogger(logger),
	}
}

func (s *AssignmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AssignmentService", operation, attrs...)
}

// ResolveCandidates ranks the roster for the requested slot. An incomplete
// query returns an empty list without touching any data source. Each call
// takes a monotonic token; only the newest call may publish its result to the
// LatestCandidates view, so a slow stale response never overwrites a newer
// one.
func (s *AssignmentService) ResolveCandidates(ctx context.Context, query CandidateQuery) ([]scheduling.Candidate, error) {
	if query.Empty() {
		return []scheduling.Candidate{}, nil
	}

	vErr := &ValidationError{}
	day := -1
	if parsed, err := time.Parse("2006-01-02", query.Date); err != nil {
		vErr.add("date", "date must be formatted as YYYY-MM-DD")
	} else {
		day = int(parsed.Weekday())
	}
	if !scheduling.ValidClock(query.TimeOfDay) {
		vErr.add("time", "time must be formatted as HH:MM")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	token := s.seq.Add(1)
	logger := s.loggerWith(ctx, "ResolveCandidates", "date", query.Date, "time", query.TimeOfDay)

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	roster, err := s.roster.ActiveStaff(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "roster fetch failed", "error", err, "error_kind", ErrorKind(err))
		return s.publish(token, query, []scheduling.Candidate{}), nil
	}
	if len(roster) == 0 {
		return s.publish(token, query, []scheduling.Candidate{}), nil
	}

	refs := make([]scheduling.StaffRef, 0, len(roster))
	ids := make([]string, 0, len(roster))
	for _, member := range roster {
		refs = append(refs, scheduling.StaffRef{ID: member.ID, DisplayName: member.DisplayName})
		ids = append(ids, member.ID)
	}

	windows, err := s.windows.WindowsForDay(ctx, ids, day)
	if err != nil {
		// Fail open: with no schedule data every staff member is assumed
		// available on the day.
		logger.ErrorContext(ctx, "availability fetch failed", "error", err, "error_kind", ErrorKind(err))
		windows = map[string]scheduling.Window{}
	}

	slots, err := s.commitments.ActiveCommitments(ctx, query.Date)
	if err != nil {
		logger.ErrorContext(ctx, "booking fetch failed", "error", err, "error_kind", ErrorKind(err))
		return s.publish(token, query, []scheduling.Candidate{}), nil
	}

	booked := make(map[string][]string, len(slots))
	for _, slot := range slots {
		booked[slot.StaffID] = append(booked[slot.StaffID], slot.TimeOfDay)
	}

	ranked := scheduling.RankCandidates(refs, windows, booked, query.TimeOfDay)
	return s.publish(token, query, ranked), nil
}

// LatestCandidates returns the most recently published query and its ranked
// candidates. ok is false until the first query completes.
func (s *AssignmentService) LatestCandidates() (CandidateQuery, []scheduling.Candidate, bool) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if s.view.token == 0 {
		return CandidateQuery{}, nil, false
	}
	out := make([]scheduling.Candidate, len(s.view.candidates))
	copy(out, s.view.candidates)
	return s.view.query, out, true
}

// publish installs the result into the latest view unless a newer query
// already published, then returns the result unchanged for the caller.
func (s *AssignmentService) publish(token uint64, query CandidateQuery, candidates []scheduling.Candidate) []scheduling.Candidate {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if token > s.view.token {
		s.view = candidateView{token: token, query: query, candidates: candidates}
	}
	return candidates
}
