package scheduling

import "sort"

// StaffRef identifies a roster member eligible for assignment.
type StaffRef struct {
	ID          string
	DisplayName string
}

// Candidate is one staff member classified against a requested slot. The three
// signal fields are independent; Conflict is their combination. Candidates are
// recomputed fresh on every query and never cached.
type Candidate struct {
	StaffID     string
	DisplayName string

	// AvailableOnDay is false only when a window for the day explicitly says
	// the staff member is off. A missing window counts as available.
	AvailableOnDay bool
	// SameHourBooking is true when any committed job time shares the target's
	// truncated hour. The granularity is deliberately the hour bucket, not
	// interval overlap: 09:05 and 09:50 collide, 09:55 and 10:05 do not.
	// TODO: product to confirm whether hour-bucket matching should move to
	// interval overlap once job durations are recorded.
	SameHourBooking bool
	// WithinHours is true when the target clock falls inside the declared
	// working hours, inclusive on both ends. A missing window counts as true.
	WithinHours bool

	Conflict bool
}

// RankCandidates classifies each roster member against the target time of day
// and returns them ranked: conflict-free candidates first, each group ordered
// by display name ascending, ties keeping roster order. windowsByStaff holds
// at most one window per staff member (the window for the queried weekday);
// bookedByStaff maps staff ID to the clock values of their active jobs that
// day. Missing entries in either map fail open.
func RankCandidates(roster []StaffRef, windowsByStaff map[string]Window, bookedByStaff map[string][]string, targetTime string) []Candidate {
	if len(roster) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(roster))
	for _, member := range roster {
		c := Candidate{
			StaffID:        member.ID,
			DisplayName:    member.DisplayName,
			AvailableOnDay: true,
			WithinHours:    true,
		}

		if window, ok := windowsByStaff[member.ID]; ok {
			if !window.Available {
				c.AvailableOnDay = false
			} else {
				c.WithinHours = window.Start <= targetTime && targetTime <= window.End
			}
		}

		for _, booked := range bookedByStaff[member.ID] {
			if sameHour(booked, targetTime) {
				c.SameHourBooking = true
				break
			}
		}

		c.Conflict = !c.AvailableOnDay || c.SameHourBooking || !c.WithinHours
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Conflict != candidates[j].Conflict {
			return !candidates[i].Conflict
		}
		return candidates[i].DisplayName < candidates[j].DisplayName
	})

	return candidates
}
