package schedule

import (
	"testing"
	"time"
)

func TestParseTimeCanonicalizes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"07:00", "07:00"},
		{"7:00", "07:00"},
		{"16:30", "16:30"},
		{"0:05", "00:05"},
		{"23:59", "23:59"},
	}
	for _, tc := range cases {
		parsed, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("ParseTime(%q): unexpected error %v", tc.in, err)
		}
		if parsed.String() != tc.want {
			t.Fatalf("ParseTime(%q) = %q, want %q", tc.in, parsed.String(), tc.want)
		}
	}
}

func TestParseTimeRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "1200", "12:0x", "122:00", "12", "ab:cd"} {
		if _, err := ParseTime(in); err == nil {
			t.Fatalf("ParseTime(%q): expected error", in)
		}
	}
}

func TestRangesOverlapHalfOpen(t *testing.T) {
	if !RangesOverlap("16:00", "17:00", "16:30", "17:30") {
		t.Fatalf("expected 16:00-17:00 and 16:30-17:30 to overlap")
	}
	// Touching endpoints do not overlap.
	if RangesOverlap("16:00", "17:00", "17:00", "18:00") {
		t.Fatalf("expected back-to-back ranges not to overlap")
	}
	if RangesOverlap("08:00", "09:00", "10:00", "11:00") {
		t.Fatalf("expected disjoint ranges not to overlap")
	}
	if !RangesOverlap("08:00", "12:00", "09:00", "10:00") {
		t.Fatalf("expected containing range to overlap")
	}
}

func TestNormalizeDayLabels(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Friday", "Friday"},
		{"friday", "Friday"},
		{"fri", "Friday"},
		{"  MONDAY ", "Monday"},
		{"1", "Monday"},
		{"7", "Sunday"},
		{"thurs", "Thursday"},
	}
	for _, tc := range cases {
		got, err := DefaultWeekdays.Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"0", "8", "-1", "someday", ""} {
		if _, err := DefaultWeekdays.Normalize(in); err == nil {
			t.Fatalf("Normalize(%q): expected error", in)
		}
	}
}

func TestMondayOfISOWeek(t *testing.T) {
	cases := []struct {
		year int
		week int
		want string
	}{
		{2024, 1, "2024-01-01"},
		{2025, 40, "2025-09-29"},
		{2026, 1, "2025-12-29"}, // ISO week 1 starts in the prior calendar year
		{2021, 53, "2020-12-28"},
	}
	for _, tc := range cases {
		got := MondayOfISOWeek(tc.year, tc.week).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("MondayOfISOWeek(%d, %d) = %s, want %s", tc.year, tc.week, got, tc.want)
		}
	}
}

func TestMondayOfISOWeekRoundTrip(t *testing.T) {
	for year := 2020; year <= 2026; year++ {
		for week := 1; week <= 52; week++ {
			monday := MondayOfISOWeek(year, week)
			gotYear, gotWeek := ISOWeekYear(monday)
			if gotYear != year || gotWeek != week {
				t.Fatalf("round trip (%d, %d) gave (%d, %d)", year, week, gotYear, gotWeek)
			}
			if monday.Weekday() != time.Monday {
				t.Fatalf("MondayOfISOWeek(%d, %d) is a %s", year, week, monday.Weekday())
			}
		}
	}
}

func TestDayNameForDate(t *testing.T) {
	date := time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)
	if got := DefaultWeekdays.DayNameFor(date); got != "Friday" {
		t.Fatalf("DayNameFor(2025-10-03) = %q, want Friday", got)
	}
	year, week := ISOWeekYear(date)
	if year != 2025 || week != 40 {
		t.Fatalf("ISOWeekYear(2025-10-03) = (%d, %d), want (2025, 40)", year, week)
	}
}
