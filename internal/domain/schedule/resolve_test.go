package schedule

import (
	"errors"
	"testing"
)

func testRoster() []Member {
	return []Member{
		{ID: "id-rut", Name: "Rut"},
		{ID: "id-pim", Name: "Pim"},
		{ID: "id-mamma", Name: "Mamma"},
	}
}

func TestResolveParticipantsByIDAndName(t *testing.T) {
	resolution, err := ResolveParticipants([]string{"id-rut", "pim", "MAMMA"}, testRoster(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"id-rut": "id-rut", "pim": "id-pim", "MAMMA": "id-mamma"}
	for ref, id := range want {
		if resolution.Resolved[ref] != id {
			t.Fatalf("expected %q to resolve to %q, got %q", ref, id, resolution.Resolved[ref])
		}
	}
	if len(resolution.Unknown) != 0 {
		t.Fatalf("expected no unknowns, got %v", resolution.Unknown)
	}
}

func TestResolveParticipantsStrictUnknown(t *testing.T) {
	_, err := ResolveParticipants([]string{"Rut", "Nobody", "Ghost", "Nobody"}, testRoster(), true)
	var unknown *UnknownParticipantsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownParticipantsError, got %v", err)
	}
	if len(unknown.Refs) != 2 || unknown.Refs[0] != "Nobody" || unknown.Refs[1] != "Ghost" {
		t.Fatalf("expected deduplicated unknowns [Nobody Ghost], got %v", unknown.Refs)
	}
}

func TestResolveParticipantsLenientDropsUnknown(t *testing.T) {
	resolution, err := ResolveParticipants([]string{"Rut", "Nobody"}, testRoster(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolution.Resolved["Rut"] != "id-rut" {
		t.Fatalf("expected Rut to resolve, got %v", resolution.Resolved)
	}
	if _, ok := resolution.Resolved["Nobody"]; ok {
		t.Fatalf("expected unknown ref to stay unresolved")
	}
	if len(resolution.Unknown) != 1 || resolution.Unknown[0] != "Nobody" {
		t.Fatalf("expected unknowns [Nobody], got %v", resolution.Unknown)
	}
}

func TestApplyResolutionDeduplicates(t *testing.T) {
	instances := []InstanceDescriptor{
		{Participants: []string{"Rut", "id-rut", "pim", "Nobody"}},
	}
	resolution, err := ResolveParticipants([]string{"Rut", "id-rut", "pim", "Nobody"}, testRoster(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	applyResolution(instances, resolution)
	got := instances[0].Participants
	if len(got) != 2 || got[0] != "id-rut" || got[1] != "id-pim" {
		t.Fatalf("expected [id-rut id-pim], got %v", got)
	}
}

func TestConflictsForDayOverlapRules(t *testing.T) {
	key := dayKey{Year: 2025, Week: 40, Day: "Friday"}
	existing := []Activity{
		{ID: "a1", Name: "Football", StartTime: "16:00", EndTime: "17:00", Participants: []string{"id-rut"}},
	}

	// Overlapping times, shared participant: exactly one conflict.
	conflicts := conflictsForDay(key, []InstanceDescriptor{
		{Name: "Piano", StartTime: "16:30", EndTime: "17:30", Participants: []string{"id-rut"}},
	}, existing)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Day != "Friday" || c.Week != 40 || c.Year != 2025 {
		t.Fatalf("unexpected conflict key: %+v", c)
	}
	if c.New.Name != "Piano" || c.Existing.ID != "a1" {
		t.Fatalf("unexpected conflict sides: %+v", c)
	}

	// Disjoint participants never conflict.
	conflicts = conflictsForDay(key, []InstanceDescriptor{
		{Name: "Piano", StartTime: "16:30", EndTime: "17:30", Participants: []string{"id-pim"}},
	}, existing)
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflict for disjoint participants, got %d", len(conflicts))
	}

	// Empty participant sets never conflict, either side.
	conflicts = conflictsForDay(key, []InstanceDescriptor{
		{Name: "Piano", StartTime: "16:30", EndTime: "17:30", Participants: nil},
	}, existing)
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflict for empty new set, got %d", len(conflicts))
	}
	conflicts = conflictsForDay(key, []InstanceDescriptor{
		{Name: "Piano", StartTime: "16:30", EndTime: "17:30", Participants: []string{"id-rut"}},
	}, []Activity{{ID: "a2", Name: "Open slot", StartTime: "16:00", EndTime: "17:00"}})
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflict for empty existing set, got %d", len(conflicts))
	}

	// Back-to-back times do not overlap.
	conflicts = conflictsForDay(key, []InstanceDescriptor{
		{Name: "Piano", StartTime: "17:00", EndTime: "18:00", Participants: []string{"id-rut"}},
	}, existing)
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflict for touching ranges, got %d", len(conflicts))
	}
}
