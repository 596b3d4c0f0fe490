package scheduling

import (
	"fmt"
	"strings"
)

// Origin distinguishes windows read back from storage from windows synthesized
// in memory. Only persisted windows carry durable identity; default windows
// become durable through an explicit save.
type Origin int

const (
	// OriginDefault marks a window synthesized from the default policy.
	OriginDefault Origin = iota
	// OriginPersisted marks a window loaded from storage.
	OriginPersisted
)

// DaysPerWeek is the size of a materialized weekly availability set.
const DaysPerWeek = 7

// Window declares whether and during which hours a staff member accepts job
// assignments on one day of the week. Day runs 0-6 with 0 = Sunday. Start and
// End are zero-padded local "HH:MM" clock values.
type Window struct {
	ID        string
	StaffID   string
	Day       int
	Start     string
	End       string
	Available bool
	Origin    Origin
}

// DefaultWeek synthesizes the seven-day default availability set for a staff
// member with no persisted windows: weekdays 09:00-17:00 available, weekend
// days present but unavailable. The result is in-memory only.
func DefaultWeek(staffID string) []Window {
	week := make([]Window, DaysPerWeek)
	for day := 0; day < DaysPerWeek; day++ {
		week[day] = Window{
			StaffID:   staffID,
			Day:       day,
			Start:     "09:00",
			End:       "17:00",
			Available: day >= 1 && day <= 5,
			Origin:    OriginDefault,
		}
	}
	return week
}

// MergeWeek lays persisted windows over the default week for a staff member.
// Each persisted row replaces the default for its day; days without a row keep
// the synthesized default. The result always holds exactly one window per day.
func MergeWeek(staffID string, persisted []Window) []Window {
	week := DefaultWeek(staffID)
	for _, w := range persisted {
		if w.Day < 0 || w.Day >= DaysPerWeek {
			continue
		}
		w.Origin = OriginPersisted
		week[w.Day] = w
	}
	return week
}

// ToggleDay returns a copy of the week with Available flipped for exactly one
// day. Every other entry is returned unchanged.
func ToggleDay(week []Window, day int) []Window {
	out := make([]Window, len(week))
	copy(out, week)
	for i := range out {
		if out[i].Day == day {
			out[i].Available = !out[i].Available
		}
	}
	return out
}

// SetHours returns a copy of the week with Start and End rewritten for exactly
// one day. Every other entry is returned unchanged.
func SetHours(week []Window, day int, start, end string) []Window {
	out := make([]Window, len(week))
	copy(out, week)
	for i := range out {
		if out[i].Day == day {
			out[i].Start = start
			out[i].End = end
		}
	}
	return out
}

// ValidateWeek checks that a week is a complete, well-formed seven-day set:
// exactly one window per day 0-6, valid zero-padded clocks, start not after
// end. It returns a map of day-keyed problems, empty when the week is valid.
func ValidateWeek(week []Window) map[string]string {
	problems := make(map[string]string)

	if len(week) != DaysPerWeek {
		problems["week"] = fmt.Sprintf("expected %d windows, got %d", DaysPerWeek, len(week))
		return problems
	}

	seen := make(map[int]bool, DaysPerWeek)
	for _, w := range week {
		key := fmt.Sprintf("day_%d", w.Day)
		if w.Day < 0 || w.Day >= DaysPerWeek {
			problems[key] = "day of week must be between 0 and 6"
			continue
		}
		if seen[w.Day] {
			problems[key] = "duplicate day of week"
			continue
		}
		seen[w.Day] = true

		if !ValidClock(w.Start) {
			problems[key] = "start time must be HH:MM"
			continue
		}
		if !ValidClock(w.End) {
			problems[key] = "end time must be HH:MM"
			continue
		}
		if w.Start > w.End {
			problems[key] = "start time must not be after end time"
		}
	}

	return problems
}

// ValidClock reports whether value is a zero-padded 24h "HH:MM" clock.
// Zero-padding matters: the conflict signals compare clocks lexicographically.
func ValidClock(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	hh, mm := value[:2], value[3:]
	if !allDigits(hh) || !allDigits(mm) {
		return false
	}
	return hh <= "23" && mm <= "59"
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// sameHour reports whether two clock values fall in the same truncated hour.
func sameHour(a, b string) bool {
	ha, ok := clockHour(a)
	if !ok {
		return false
	}
	hb, ok := clockHour(b)
	if !ok {
		return false
	}
	return ha == hb
}

func clockHour(value string) (string, bool) {
	idx := strings.IndexByte(value, ':')
	if idx <= 0 {
		return "", false
	}
	return value[:idx], true
}
