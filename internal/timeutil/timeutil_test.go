package timeutil

import (
	"testing"
	"time"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		date  string
		clock string
		want  bool
	}{
		{"yesterday untimed", at(2024, 1, 11, 8, 0), "2024-01-10", "", true},
		{"today untimed before end of day", at(2024, 1, 10, 23, 58), "2024-01-10", "", false},
		{"today untimed at threshold", at(2024, 1, 10, 23, 59), "2024-01-10", "", false},
		{"today untimed after threshold", at(2024, 1, 10, 23, 59).Add(30 * time.Second), "2024-01-10", "", true},
		{"timed passed same day", at(2024, 1, 10, 23, 30), "2024-01-10", "23:00", true},
		{"timed exactly now", at(2024, 1, 10, 23, 0), "2024-01-10", "23:00", false},
		{"timed in future", at(2024, 1, 10, 22, 0), "2024-01-10", "23:00", false},
		{"tomorrow", at(2024, 1, 10, 12, 0), "2024-01-11", "", false},
		{"unparsable date", at(2024, 1, 10, 12, 0), "soon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fixed(tt.now).IsOverdue(tt.date, tt.clock)
			if got != tt.want {
				t.Errorf("IsOverdue(%q, %q) at %s = %v, want %v", tt.date, tt.clock, tt.now, got, tt.want)
			}
		})
	}
}

func TestIsSameCalendarDay(t *testing.T) {
	o := Fixed(at(2024, 3, 5, 0, 1))
	if !o.IsSameCalendarDay("2024-03-05") {
		t.Error("expected same day")
	}
	if o.IsSameCalendarDay("2024-03-04") {
		t.Error("expected previous day to differ")
	}
	if o.IsSameCalendarDay("") {
		t.Error("expected empty date to never match")
	}
}

func TestIsWithinWeekWindow(t *testing.T) {
	o := Fixed(at(2024, 3, 15, 12, 0))
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-15", true},
		{"2024-03-09", true},
		{"2024-03-08", false}, // midnight of the 8th is 7.5 days back
		{"2024-03-22", true},
		{"2024-03-23", false},
		{"bad", false},
	}
	for _, tt := range tests {
		if got := o.IsWithinWeekWindow(tt.date); got != tt.want {
			t.Errorf("IsWithinWeekWindow(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestWeekWindowBoundsInclusive(t *testing.T) {
	o := Fixed(at(2024, 3, 15, 0, 0))
	if !o.IsWithinWeekWindow("2024-03-08") {
		t.Error("expected lower bound to be included")
	}
	if !o.IsWithinWeekWindow("2024-03-22") {
		t.Error("expected upper bound to be included")
	}
}

func TestInstantFallback(t *testing.T) {
	got, err := Instant("2024-01-10", "", ReminderDefaultTime, time.UTC)
	if err != nil {
		t.Fatalf("Instant failed: %v", err)
	}
	want := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if _, err := Instant("2024-01-10", "25:99", ReminderDefaultTime, time.UTC); err == nil {
		t.Error("expected error for invalid clock")
	}
}

func TestZeroOracleUsesWallClock(t *testing.T) {
	var o Oracle
	before := time.Now()
	now := o.Now()
	if now.Before(before) {
		t.Errorf("expected wall clock time, got %s", now)
	}
}
