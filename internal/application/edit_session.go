package application

import (
	"context"
	"sync"

	"github.com/example/cleanops/internal/scheduling"
)

// EditState tracks where an availability editing session is in its lifecycle.
type EditState int

const (
	// EditStateIdle means the session accepts edits and save requests.
	EditStateIdle EditState = iota
	// EditStateSaving means a save is in flight; callers should not trigger
	// another one until the session returns to idle.
	EditStateSaving
)

// String returns a readable label for logs.
func (s EditState) String() string {
	switch s {
	case EditStateIdle:
		return "idle"
	case EditStateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// EditSession holds one staff member's in-progress availability edits. Edits
// mutate only the session's working copy; nothing reaches the store until
// Save. After a failed save the working copy is kept so the user can retry
// without losing changes.
type EditSession struct {
	service   *AvailabilityService
	principal Principal
	staffID   string

	mu      sync.Mutex
	state   EditState
	week    []scheduling.Window
	lastErr error
}

// NewEditSession opens an editing session for the given staff member's week.
func NewEditSession(service *AvailabilityService, principal Principal, staffID string) *EditSession {
	return &EditSession{
		service:   service,
		principal: principal,
		staffID:   staffID,
	}
}

// Load populates the working copy from the store, replacing any pending edits.
func (e *EditSession) Load(ctx context.Context) {
	week := e.service.Week(ctx, e.staffID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.week = week
	e.lastErr = nil
}

// Week returns a copy of the working week.
func (e *EditSession) Week() []scheduling.Window {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]scheduling.Window, len(e.week))
	copy(out, e.week)
	return out
}

// State reports the current lifecycle state.
func (e *EditSession) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error from the most recent failed save, or nil.
func (e *EditSession) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ToggleDay flips the availability flag for one day in the working copy.
func (e *EditSession) ToggleDay(day int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.week = scheduling.ToggleDay(e.week, day)
}

// SetHours replaces the start and end times for one day in the working copy.
func (e *EditSession) SetHours(day int, start, end string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.week = scheduling.SetHours(e.week, day, start, end)
}

// Save persists the working week. The session moves to saving for the
// duration and back to idle afterwards; on failure the error is retained and
// the working copy stays untouched for retry. Save does not serialize
// concurrent callers beyond the state flag, so the last completed save wins.
func (e *EditSession) Save(ctx context.Context) error {
	e.mu.Lock()
	e.state = EditStateSaving
	snapshot := make([]scheduling.Window, len(e.week))
	copy(snapshot, e.week)
	e.mu.Unlock()

	saved, err := e.service.SaveWeek(ctx, e.principal, e.staffID, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = EditStateIdle
	if err != nil {
		e.lastErr = err
		return err
	}
	e.lastErr = nil
	e.week = saved
	return nil
}
