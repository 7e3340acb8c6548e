package planner

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type fakePlannerRepo struct {
	activities map[string]*Activity
}

func newFakePlannerRepo() *fakePlannerRepo {
	return &fakePlannerRepo{activities: make(map[string]*Activity)}
}

func (r *fakePlannerRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func sameArchive(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakePlannerRepo) ListByArchive(ctx context.Context, userID string, archive *string) ([]Activity, error) {
	result := make([]Activity, 0)
	for _, activity := range r.activities {
		if activity.UserID == userID && sameArchive(activity.ArchiveName, archive) {
			result = append(result, *activity)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (r *fakePlannerRepo) ListArchiveNames(ctx context.Context, userID string) ([]string, error) {
	seen := map[string]bool{}
	names := make([]string, 0)
	for _, activity := range r.activities {
		if activity.UserID != userID || activity.ArchiveName == nil || seen[*activity.ArchiveName] {
			continue
		}
		seen[*activity.ArchiveName] = true
		names = append(names, *activity.ArchiveName)
	}
	sort.Strings(names)
	return names, nil
}

func (r *fakePlannerRepo) CreateActivities(ctx context.Context, activities []*Activity) error {
	for _, activity := range activities {
		copied := *activity
		r.activities[activity.ID] = &copied
	}
	return nil
}

func (r *fakePlannerRepo) DeleteByArchive(ctx context.Context, userID string, archive *string) (int64, error) {
	var deleted int64
	for id, activity := range r.activities {
		if activity.UserID == userID && sameArchive(activity.ArchiveName, archive) {
			delete(r.activities, id)
			deleted++
		}
	}
	return deleted, nil
}

const testUser = "user-1"

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func slot(title, day, start, end string, duration int) ActivityInput {
	return ActivityInput{
		Title:     title,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Duration:  intPtr(duration),
	}
}

func TestSyncReplacesLiveTimetable(t *testing.T) {
	repo := newFakePlannerRepo()
	service := NewService(repo)

	count, err := service.Sync(context.Background(), testUser, nil, []ActivityInput{
		slot("Math", "Monday", "08:00", "09:00", 60),
		slot("English", "Tuesday", "09:00", "10:00", 60),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 synced activities, got %d", count)
	}

	// A second sync fully replaces the first one.
	count, err = service.Sync(context.Background(), testUser, nil, []ActivityInput{
		slot("Chemistry", "Friday", "10:00", "11:00", 60),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 synced activity, got %d", count)
	}

	live, err := service.List(context.Background(), testUser, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(live) != 1 || live[0].Title != "Chemistry" {
		t.Fatalf("expected the timetable replaced, got %+v", live)
	}
	if live[0].ID == "" || live[0].ArchiveName != nil {
		t.Fatalf("expected a generated id on the live timetable, got %+v", live[0])
	}
}

func TestSyncArchiveLeavesLiveAlone(t *testing.T) {
	repo := newFakePlannerRepo()
	service := NewService(repo)

	if _, err := service.Sync(context.Background(), testUser, nil, []ActivityInput{
		slot("Math", "Monday", "08:00", "09:00", 60),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Sync(context.Background(), testUser, strPtr("autumn-2025"), []ActivityInput{
		slot("History", "Wednesday", "11:00", "12:00", 60),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	live, _ := service.List(context.Background(), testUser, nil)
	if len(live) != 1 || live[0].Title != "Math" {
		t.Fatalf("expected the live timetable untouched, got %+v", live)
	}

	archived, _ := service.List(context.Background(), testUser, strPtr("autumn-2025"))
	if len(archived) != 1 || archived[0].Title != "History" {
		t.Fatalf("expected the archived timetable, got %+v", archived)
	}
	if archived[0].ArchiveName == nil || *archived[0].ArchiveName != "autumn-2025" {
		t.Fatalf("expected the archive name stored, got %+v", archived[0])
	}
}

func TestSyncValidation(t *testing.T) {
	repo := newFakePlannerRepo()
	service := NewService(repo)

	cases := []struct {
		name  string
		input ActivityInput
		field string
	}{
		{"missing title", slot("  ", "Monday", "08:00", "09:00", 60), "title"},
		{"missing day", slot("Math", "", "08:00", "09:00", 60), "day"},
		{"missing start", slot("Math", "Monday", "", "09:00", 60), "startTime"},
		{"missing end", slot("Math", "Monday", "08:00", "", 60), "endTime"},
		{"missing duration", ActivityInput{Title: "Math", Day: "Monday", StartTime: "08:00", EndTime: "09:00"}, "duration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Sync(context.Background(), testUser, nil, []ActivityInput{
				slot("Ok", "Monday", "07:00", "08:00", 60),
				tc.input,
			})
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if validationErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, validationErr.Field)
			}
			if len(repo.activities) != 0 {
				t.Fatalf("expected nothing persisted after a bad batch")
			}
		})
	}
}

func TestSyncKeepsSuppliedIDs(t *testing.T) {
	repo := newFakePlannerRepo()
	service := NewService(repo)

	input := slot("Math", "Monday", "08:00", "09:00", 60)
	input.ID = "fixed-id"
	input.Teacher = strPtr("Mr Berg")
	input.Room = strPtr("A12")
	if _, err := service.Sync(context.Background(), testUser, nil, []ActivityInput{input}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.activities["fixed-id"]
	if stored == nil {
		t.Fatalf("expected the supplied id kept, got %+v", repo.activities)
	}
	if stored.Teacher == nil || *stored.Teacher != "Mr Berg" || stored.Room == nil || *stored.Room != "A12" {
		t.Fatalf("expected optional fields stored, got %+v", stored)
	}
}

func TestArchivesAndDelete(t *testing.T) {
	repo := newFakePlannerRepo()
	service := NewService(repo)

	for _, name := range []string{"spring-2025", "autumn-2025"} {
		if _, err := service.Sync(context.Background(), testUser, strPtr(name), []ActivityInput{
			slot("Math", "Monday", "08:00", "09:00", 60),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	names, err := service.Archives(context.Background(), testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "autumn-2025" || names[1] != "spring-2025" {
		t.Fatalf("unexpected archive names: %v", names)
	}

	if err := service.Delete(context.Background(), testUser, strPtr("spring-2025")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names, _ = service.Archives(context.Background(), testUser)
	if len(names) != 1 || names[0] != "autumn-2025" {
		t.Fatalf("expected only autumn-2025 left, got %v", names)
	}

	remaining, _ := service.List(context.Background(), testUser, strPtr("autumn-2025"))
	if len(remaining) != 1 {
		t.Fatalf("expected the other archive untouched, got %+v", remaining)
	}
}
