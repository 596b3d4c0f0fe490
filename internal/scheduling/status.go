package scheduling

import "fmt"

// Status identifies a job's position in its lifecycle.
type Status string

const (
	// StatusPending marks a job that is booked but not yet started.
	StatusPending Status = "pending"
	// StatusInProgress marks a job currently being worked.
	StatusInProgress Status = "in_progress"
	// StatusCompleted marks a finished job. Terminal.
	StatusCompleted Status = "completed"
	// StatusCancelled marks a job that was called off. Terminal.
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown job status %q", raw)
}

// Active reports whether the job occupies its assigned staff member's time.
// Only pending and in-progress jobs count as commitments; completed and
// cancelled jobs never contribute conflicts, so finishing or cancelling a job
// frees the slot without any cleanup step.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving from one status to another is legal.
// The lifecycle is pending → in_progress → completed, with cancelled reachable
// from pending or in_progress only.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// ActiveStatuses returns the statuses that occupy staff time, in lifecycle order.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusInProgress}
}
