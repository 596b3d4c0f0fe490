package scheduling

import "testing"

func TestDefaultWeekShape(t *testing.T) {
	t.Parallel()

	week := DefaultWeek("staff-1")
	if len(week) != DaysPerWeek {
		t.Fatalf("expected %d windows, got %d", DaysPerWeek, len(week))
	}

	for day, window := range week {
		if window.Day != day {
			t.Errorf("window %d carries day %d", day, window.Day)
		}
		if window.StaffID != "staff-1" {
			t.Errorf("day %d: unexpected staff id %q", day, window.StaffID)
		}
		if window.Start != "09:00" || window.End != "17:00" {
			t.Errorf("day %d: unexpected hours %s-%s", day, window.Start, window.End)
		}
		if window.Origin != OriginDefault {
			t.Errorf("day %d: default week must be marked as synthesized", day)
		}

		wantAvailable := day >= 1 && day <= 5
		if window.Available != wantAvailable {
			t.Errorf("day %d: available = %v, want %v", day, window.Available, wantAvailable)
		}
	}
}

func TestMergeWeekOverlaysPersistedDays(t *testing.T) {
	t.Parallel()

	persisted := []Window{
		{ID: "w-1", StaffID: "staff-1", Day: 1, Start: "07:00", End: "12:00", Available: true},
		{ID: "w-2", StaffID: "staff-1", Day: 6, Start: "10:00", End: "14:00", Available: true},
		{StaffID: "staff-1", Day: 9, Start: "00:00", End: "01:00"}, // out of range, ignored
	}

	week := MergeWeek("staff-1", persisted)
	if len(week) != DaysPerWeek {
		t.Fatalf("expected %d windows, got %d", DaysPerWeek, len(week))
	}

	if week[1].ID != "w-1" || week[1].Start != "07:00" || week[1].Origin != OriginPersisted {
		t.Errorf("day 1 not overlaid by persisted row: %+v", week[1])
	}
	if !week[6].Available || week[6].Origin != OriginPersisted {
		t.Errorf("day 6 not overlaid by persisted row: %+v", week[6])
	}
	if week[0].Origin != OriginDefault || week[2].Origin != OriginDefault {
		t.Error("days without persisted rows must keep synthesized defaults")
	}
}

func TestToggleDayFlipsExactlyOneDay(t *testing.T) {
	t.Parallel()

	week := DefaultWeek("staff-1")
	toggled := ToggleDay(week, 3)

	for day := range week {
		if day == 3 {
			if toggled[day].Available == week[day].Available {
				t.Errorf("day %d: available flag was not flipped", day)
			}
			continue
		}
		if toggled[day] != week[day] {
			t.Errorf("day %d changed: %+v != %+v", day, toggled[day], week[day])
		}
	}

	// The input week must be untouched.
	if !week[3].Available {
		t.Fatal("ToggleDay mutated its input")
	}
}

func TestSetHoursUpdatesExactlyOneDay(t *testing.T) {
	t.Parallel()

	week := DefaultWeek("staff-1")
	updated := SetHours(week, 5, "08:30", "16:30")

	for day := range week {
		if day == 5 {
			if updated[day].Start != "08:30" || updated[day].End != "16:30" {
				t.Errorf("day %d: hours not updated: %+v", day, updated[day])
			}
			if updated[day].Available != week[day].Available {
				t.Errorf("day %d: available flag must not change", day)
			}
			continue
		}
		if updated[day] != week[day] {
			t.Errorf("day %d changed: %+v != %+v", day, updated[day], week[day])
		}
	}

	if week[5].Start != "09:00" {
		t.Fatal("SetHours mutated its input")
	}
}

func TestValidateWeek(t *testing.T) {
	t.Parallel()

	if problems := ValidateWeek(DefaultWeek("staff-1")); len(problems) != 0 {
		t.Fatalf("default week must validate, got %v", problems)
	}

	short := DefaultWeek("staff-1")[:6]
	if problems := ValidateWeek(short); problems["week"] == "" {
		t.Error("expected incomplete week to be rejected")
	}

	dup := DefaultWeek("staff-1")
	dup[2].Day = 1
	if problems := ValidateWeek(dup); problems["day_1"] == "" {
		t.Error("expected duplicate day to be rejected")
	}

	badClock := DefaultWeek("staff-1")
	badClock[4].Start = "9:00"
	if problems := ValidateWeek(badClock); problems["day_4"] == "" {
		t.Error("expected unpadded clock to be rejected")
	}

	inverted := DefaultWeek("staff-1")
	inverted[4].Start = "18:00"
	if problems := ValidateWeek(inverted); problems["day_4"] == "" {
		t.Error("expected start after end to be rejected")
	}
}

func TestValidClock(t *testing.T) {
	t.Parallel()

	valid := []string{"00:00", "09:05", "17:30", "23:59"}
	for _, v := range valid {
		if !ValidClock(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "9:00", "24:00", "12:60", "12-30", "12:3", "aa:bb", "12:345"}
	for _, v := range invalid {
		if ValidClock(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}
