package schedule

import (
	"errors"
	"testing"
)

func flexRef(s string) *FlexRef {
	r := FlexRef(s)
	return &r
}

func flexRefs(ss ...string) []FlexRef {
	out := make([]FlexRef, 0, len(ss))
	for _, s := range ss {
		out = append(out, FlexRef(s))
	}
	return out
}

func intPtr(n int) *int { return &n }

func TestValidatePayloadFromDate(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Football",
		StartTime: "16:00",
		EndTime:   "17:00",
		Date:      "2025-10-03",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(normalized.Occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(normalized.Occurrences))
	}
	occ := normalized.Occurrences[0]
	if occ.Day != "Friday" || occ.Week != 40 || occ.Year != 2025 {
		t.Fatalf("expected {Friday 40 2025}, got {%s %d %d}", occ.Day, occ.Week, occ.Year)
	}
	if normalized.SeriesID == "" {
		t.Fatalf("expected a generated series id")
	}
}

func TestValidatePayloadDatesGroup(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Swim class",
		StartTime: "09:00",
		EndTime:   "10:00",
		Dates:     []string{"2024-01-01", "2024-01-03"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(normalized.Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(normalized.Occurrences))
	}
	if normalized.Occurrences[0].Day != "Monday" || normalized.Occurrences[1].Day != "Wednesday" {
		t.Fatalf("expected Monday and Wednesday, got %s and %s",
			normalized.Occurrences[0].Day, normalized.Occurrences[1].Day)
	}
	for _, occ := range normalized.Occurrences {
		if occ.Week != 1 || occ.Year != 2024 {
			t.Fatalf("expected week 1 year 2024, got week %d year %d", occ.Week, occ.Year)
		}
	}
}

func TestValidatePayloadDatePrecedesDays(t *testing.T) {
	// Explicit date wins over days+week+year.
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Piano",
		StartTime: "15:00",
		EndTime:   "15:45",
		Date:      "2025-10-03",
		Days:      flexRefs("Monday"),
		Week:      intPtr(2),
		Year:      intPtr(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(normalized.Occurrences) != 1 || normalized.Occurrences[0].Day != "Friday" {
		t.Fatalf("expected the explicit date to win, got %+v", normalized.Occurrences)
	}
}

func TestValidatePayloadDaysWeekYear(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Gymnastics",
		StartTime: "17:00",
		EndTime:   "18:00",
		Days:      flexRefs("tue", "Thursday"),
		Week:      intPtr(12),
		Year:      intPtr(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []DayWeekYear{
		{Day: "Tuesday", Week: 12, Year: 2025},
		{Day: "Thursday", Week: 12, Year: 2025},
	}
	if len(normalized.Occurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(normalized.Occurrences))
	}
	for i, occ := range normalized.Occurrences {
		if occ != want[i] {
			t.Fatalf("occurrence %d: expected %+v, got %+v", i, want[i], occ)
		}
	}
	if normalized.Recurring != nil {
		t.Fatalf("expected no recurring rule without recurringEndDate")
	}
}

func TestValidatePayloadRecurring(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:             "Choir",
		StartTime:        "18:00",
		EndTime:          "19:00",
		Day:              flexRef("Monday"),
		Week:             intPtr(1),
		Year:             intPtr(2024),
		RecurringEndDate: "2024-01-15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normalized.Recurring == nil {
		t.Fatalf("expected a recurring rule")
	}
	if len(normalized.Occurrences) != 0 {
		t.Fatalf("expected no direct occurrences for a recurring rule")
	}
	rule := normalized.Recurring
	if rule.Week != 1 || rule.Year != 2024 || rule.EndDate.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("unexpected rule %+v", rule)
	}
	if len(rule.Days) != 1 || rule.Days[0] != "Monday" {
		t.Fatalf("expected rule days [Monday], got %v", rule.Days)
	}
}

func TestValidatePayloadRecurringEndBeforeStart(t *testing.T) {
	_, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:             "Choir",
		StartTime:        "18:00",
		EndTime:          "19:00",
		Day:              flexRef("Monday"),
		Week:             intPtr(10),
		Year:             intPtr(2024),
		RecurringEndDate: "2024-01-15",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "recurringEndDate" {
		t.Fatalf("expected recurringEndDate validation error, got %v", err)
	}
}

func TestValidatePayloadFieldErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload ActivityPayload
		field   string
	}{
		{"missing name", ActivityPayload{StartTime: "10:00", EndTime: "11:00", Date: "2025-01-01"}, "name"},
		{"bad start", ActivityPayload{Name: "x", StartTime: "25:00", EndTime: "11:00", Date: "2025-01-01"}, "startTime"},
		{"bad end", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "oops", Date: "2025-01-01"}, "endTime"},
		{"end not after start", ActivityPayload{Name: "x", StartTime: "18:00", EndTime: "17:00", Date: "2025-01-01"}, "startTime"},
		{"equal times", ActivityPayload{Name: "x", StartTime: "18:00", EndTime: "18:00", Date: "2025-01-01"}, "startTime"},
		{"bad date", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00", Dates: []string{"not-a-date"}}, "dates"},
		{"no temporal spec", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00"}, "day"},
		{"bad day label", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00", Day: flexRef("someday"), Week: intPtr(1), Year: intPtr(2025)}, "day"},
		{"missing week", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00", Day: flexRef("Monday"), Year: intPtr(2025)}, "week"},
		{"missing year", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00", Day: flexRef("Monday"), Week: intPtr(1)}, "year"},
		{"bad recurring end", ActivityPayload{Name: "x", StartTime: "10:00", EndTime: "11:00", Day: flexRef("Monday"), Week: intPtr(1), Year: intPtr(2025), RecurringEndDate: "15/01/2025"}, "recurringEndDate"},
	}
	for _, tc := range cases {
		_, err := ValidateActivityPayload(DefaultWeekdays, tc.payload)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q (%s)", tc.name, tc.field, verr.Field, verr.Message)
		}
	}
}

func TestValidatePayloadKeepsSeriesID(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Football",
		StartTime: "16:00",
		EndTime:   "17:00",
		Date:      "2025-10-03",
		SeriesID:  "series-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normalized.SeriesID != "series-1" {
		t.Fatalf("expected supplied series id to be kept, got %q", normalized.SeriesID)
	}
}

func TestValidatePayloadNumericDay(t *testing.T) {
	normalized, err := ValidateActivityPayload(DefaultWeekdays, ActivityPayload{
		Name:      "Run",
		StartTime: "06:30",
		EndTime:   "07:15",
		Day:       flexRef("5"),
		Week:      intPtr(8),
		Year:      intPtr(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normalized.Occurrences[0].Day != "Friday" {
		t.Fatalf("expected numeric day 5 to normalize to Friday, got %s", normalized.Occurrences[0].Day)
	}
}
