package schedule

import (
	"testing"
	"time"
)

func TestExpandOccurrences(t *testing.T) {
	normalized := &NormalizedActivity{
		Name:      "Football",
		StartTime: "16:00",
		EndTime:   "17:00",
		SeriesID:  "series-1",
		Occurrences: []DayWeekYear{
			{Day: "Friday", Week: 40, Year: 2025},
			{Day: "Saturday", Week: 40, Year: 2025},
		},
	}
	instances := ExpandInstances(DefaultWeekdays, normalized)
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	for i, instance := range instances {
		if instance.Day != normalized.Occurrences[i].Day {
			t.Fatalf("instance %d: expected day %s, got %s", i, normalized.Occurrences[i].Day, instance.Day)
		}
		if instance.Name != "Football" || instance.SeriesID != "series-1" {
			t.Fatalf("instance %d lost base fields: %+v", i, instance)
		}
	}
}

func TestExpandRecurringInclusiveEnd(t *testing.T) {
	normalized := &NormalizedActivity{
		Name:      "Choir",
		StartTime: "18:00",
		EndTime:   "19:00",
		SeriesID:  "series-1",
		Recurring: &RecurringRule{
			Days:    []string{"Monday"},
			Week:    1,
			Year:    2024,
			EndDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	instances := ExpandInstances(DefaultWeekdays, normalized)
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances (Jan 1, 8, 15), got %d", len(instances))
	}
	wantWeeks := []int{1, 2, 3}
	for i, instance := range instances {
		if instance.Day != "Monday" || instance.Year != 2024 || instance.Week != wantWeeks[i] {
			t.Fatalf("instance %d: expected Monday week %d 2024, got %s week %d %d",
				i, wantWeeks[i], instance.Day, instance.Week, instance.Year)
		}
	}
}

func TestExpandRecurringSkipsDatesPastEnd(t *testing.T) {
	// End date on Wednesday of the last week: the Friday of that week
	// falls past it and must be skipped.
	normalized := &NormalizedActivity{
		Name:      "Practice",
		StartTime: "16:00",
		EndTime:   "17:00",
		Recurring: &RecurringRule{
			Days:    []string{"Monday", "Friday"},
			Week:    2,
			Year:    2024,
			EndDate: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}
	instances := ExpandInstances(DefaultWeekdays, normalized)
	// Week 2: Mon Jan 8, Fri Jan 12. Week 3: Mon Jan 15 only.
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	got := []string{}
	for _, instance := range instances {
		got = append(got, instance.Day)
	}
	want := []string{"Monday", "Friday", "Monday"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected days %v, got %v", want, got)
		}
	}
}

func TestExpandRecurringYearBoundary(t *testing.T) {
	// Week 52 of 2025 starts Mon Dec 22; the series runs into ISO week 1
	// of 2026, whose Monday is Dec 29 2025.
	normalized := &NormalizedActivity{
		Name:      "Hockey",
		StartTime: "19:00",
		EndTime:   "20:00",
		Recurring: &RecurringRule{
			Days:    []string{"Monday"},
			Week:    52,
			Year:    2025,
			EndDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	instances := ExpandInstances(DefaultWeekdays, normalized)
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	want := []DayWeekYear{
		{Day: "Monday", Week: 52, Year: 2025},
		{Day: "Monday", Week: 1, Year: 2026},
		{Day: "Monday", Week: 2, Year: 2026},
	}
	for i, instance := range instances {
		got := DayWeekYear{Day: instance.Day, Week: instance.Week, Year: instance.Year}
		if got != want[i] {
			t.Fatalf("instance %d: expected %+v, got %+v", i, want[i], got)
		}
	}
}

func TestExpandRecurringKeepsSuppliedDayOrder(t *testing.T) {
	normalized := &NormalizedActivity{
		Name:      "Practice",
		StartTime: "16:00",
		EndTime:   "17:00",
		Recurring: &RecurringRule{
			Days:    []string{"Friday", "Monday"},
			Week:    2,
			Year:    2024,
			EndDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		},
	}
	instances := ExpandInstances(DefaultWeekdays, normalized)
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	if instances[0].Day != "Friday" || instances[1].Day != "Monday" {
		t.Fatalf("expected supplied day order Friday, Monday; got %s, %s",
			instances[0].Day, instances[1].Day)
	}
}
