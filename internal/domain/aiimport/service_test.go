package aiimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"family-planner-go/internal/domain/schedule"
	"family-planner-go/internal/llm"
	"family-planner-go/pkg/logger"
)

// fakeScheduleRepo backs a real schedule.Service with in-memory maps;
// only the methods the import pipeline touches do real work.
type fakeScheduleRepo struct {
	members    map[string]*schedule.Member
	activities map[string]*schedule.Activity
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		members:    make(map[string]*schedule.Member),
		activities: make(map[string]*schedule.Activity),
	}
}

func (r *fakeScheduleRepo) Transaction(ctx context.Context, fn func(schedule.Repository) error) error {
	return fn(r)
}

func (r *fakeScheduleRepo) ListMembers(ctx context.Context, userID string) ([]schedule.Member, error) {
	result := make([]schedule.Member, 0, len(r.members))
	for _, member := range r.members {
		if member.UserID == userID {
			result = append(result, *member)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) GetMember(ctx context.Context, userID, memberID string) (*schedule.Member, error) {
	member, ok := r.members[memberID]
	if !ok || member.UserID != userID {
		return nil, schedule.ErrMemberNotFound
	}
	return member, nil
}

func (r *fakeScheduleRepo) CreateMember(ctx context.Context, member *schedule.Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) UpdateMember(ctx context.Context, member *schedule.Member) error {
	return nil
}

func (r *fakeScheduleRepo) DeleteMember(ctx context.Context, userID, memberID string) (bool, error) {
	return false, nil
}

func (r *fakeScheduleRepo) CountMemberActivities(ctx context.Context, memberID string) (int64, error) {
	return 0, nil
}

func (r *fakeScheduleRepo) GetSettings(ctx context.Context, userID string) (*schedule.Settings, error) {
	return nil, schedule.ErrSettingsNotFound
}

func (r *fakeScheduleRepo) CreateSettings(ctx context.Context, settings *schedule.Settings) error {
	return nil
}

func (r *fakeScheduleRepo) UpdateSettings(ctx context.Context, settings *schedule.Settings) error {
	return nil
}

func (r *fakeScheduleRepo) ListActivities(ctx context.Context, userID string, filter schedule.ActivityFilter) ([]schedule.Activity, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) ListActivitiesByDay(ctx context.Context, userID string, year, week int, day string) ([]schedule.Activity, error) {
	result := make([]schedule.Activity, 0)
	for _, activity := range r.activities {
		if activity.UserID == userID && activity.Year == year && activity.Week == week && activity.Day == day {
			result = append(result, *activity)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) ListActivitiesBySeries(ctx context.Context, userID, seriesID string) ([]schedule.Activity, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) GetActivity(ctx context.Context, userID, activityID string) (*schedule.Activity, error) {
	return nil, schedule.ErrActivityNotFound
}

func (r *fakeScheduleRepo) CreateActivities(ctx context.Context, activities []*schedule.Activity) error {
	for _, activity := range activities {
		copied := *activity
		r.activities[activity.ID] = &copied
	}
	return nil
}

func (r *fakeScheduleRepo) UpdateActivity(ctx context.Context, activity *schedule.Activity) error {
	return nil
}

func (r *fakeScheduleRepo) ReplaceParticipants(ctx context.Context, activityID string, memberIDs []string) error {
	return nil
}

func (r *fakeScheduleRepo) DeleteActivity(ctx context.Context, userID, activityID string) (bool, error) {
	return false, nil
}

func (r *fakeScheduleRepo) DeleteSeries(ctx context.Context, userID, seriesID string) (int64, error) {
	return 0, nil
}

// fakeCompleter returns a canned reply and records the prompt.
type fakeCompleter struct {
	reply      string
	err        error
	configured bool
	lastPrompt string
}

func (c *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.lastPrompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *fakeCompleter) Configured() bool { return c.configured }

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "json")
}

func parseReply(text string) ([]RawActivity, error) {
	items, err := llm.ParseActivityArray(text)
	if err != nil {
		return nil, err
	}
	return DecodeRawActivities(items), nil
}

const testUser = "user-1"

func newImportFixture(reply string, strict bool) (*Service, *fakeScheduleRepo, *fakeCompleter) {
	repo := newFakeScheduleRepo()
	repo.members["id-rut"] = &schedule.Member{ID: "id-rut", UserID: testUser, Name: "Rut", Color: "#FF6B6B", Icon: "x"}
	completer := &fakeCompleter{reply: reply, configured: true}
	service := NewService(completer, schedule.NewService(repo), parseReply, strict, testLogger())
	return service, repo, completer
}

func TestPreviewParsesModelReply(t *testing.T) {
	reply := `Here you go:
[{"name": "Football", "startTime": "16:00", "endTime": "17:00",
  "days": ["Friday"], "week": "40", "year": 2025, "participants": ["id-rut"]}]`
	service, _, completer := newImportFixture(reply, true)

	payloads, err := service.Preview(context.Background(), testUser, "football friday at 4pm", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	p := payloads[0]
	if p.Name != "Football" || *p.Week != 40 || *p.Year != 2025 {
		t.Fatalf("unexpected payload: %+v", p)
	}

	// The prompt carries the roster mapping and the raw text.
	if !strings.Contains(completer.lastPrompt, "id-rut") {
		t.Fatalf("expected roster ids in the prompt")
	}
	if !strings.Contains(completer.lastPrompt, "football friday at 4pm") {
		t.Fatalf("expected the user text in the prompt")
	}
}

func TestPreviewNotConfigured(t *testing.T) {
	repo := newFakeScheduleRepo()
	service := NewService(&fakeCompleter{configured: false}, schedule.NewService(repo), parseReply, true, testLogger())

	_, err := service.Preview(context.Background(), testUser, "anything", nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	nilService := NewService(nil, schedule.NewService(repo), parseReply, true, testLogger())
	if nilService.Configured() {
		t.Fatalf("expected Configured to be false without a completer")
	}
}

func TestPreviewRejectsEmptyText(t *testing.T) {
	service, _, _ := newImportFixture("[]", true)

	_, err := service.Preview(context.Background(), testUser, "   ", nil, nil)
	var verr *schedule.ValidationError
	if !errors.As(err, &verr) || verr.Field != "text" {
		t.Fatalf("expected text validation error, got %v", err)
	}
}

func TestImportPersistsActivities(t *testing.T) {
	reply := `[{"name": "Football", "startTime": "16:00", "endTime": "17:00",
  "days": ["Friday"], "week": 40, "year": 2025, "participants": ["Rut"]}]`
	service, repo, _ := newImportFixture(reply, true)

	created, err := service.Import(context.Background(), testUser, "football friday", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(created))
	}
	if len(created[0].Participants) != 1 || created[0].Participants[0] != "id-rut" {
		t.Fatalf("expected the name reference resolved to the member id, got %v", created[0].Participants)
	}
	if len(repo.activities) != 1 {
		t.Fatalf("expected the activity persisted, got %d", len(repo.activities))
	}
}

func TestImportStrictRejectsUnknownParticipants(t *testing.T) {
	reply := `[{"name": "Football", "startTime": "16:00", "endTime": "17:00",
  "days": ["Friday"], "week": 40, "year": 2025, "participants": ["Nobody"]}]`
	service, repo, _ := newImportFixture(reply, true)

	_, err := service.Import(context.Background(), testUser, "football friday", nil, nil)
	var unknown *schedule.UnknownParticipantsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownParticipantsError, got %v", err)
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestImportLenientDropsUnknownParticipants(t *testing.T) {
	reply := `[{"name": "Football", "startTime": "16:00", "endTime": "17:00",
  "days": ["Friday"], "week": 40, "year": 2025, "participants": ["Rut", "Nobody"]}]`
	service, _, _ := newImportFixture(reply, false)

	created, err := service.Import(context.Background(), testUser, "football friday", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || len(created[0].Participants) != 1 {
		t.Fatalf("expected one activity with the known participant, got %+v", created)
	}
}

func TestImportEmptyModelOutput(t *testing.T) {
	service, repo, _ := newImportFixture("[]", true)

	created, err := service.Import(context.Background(), testUser, "nothing schedulable", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no activities, got %d", len(created))
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestBuildParsePromptIncludesContextWeek(t *testing.T) {
	week, year := 40, 2025
	prompt, err := BuildParsePrompt("swim monday", []schedule.Member{{ID: "id-rut", Name: "Rut"}}, &week, &year)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "Week: 40, Year: 2025") {
		t.Fatalf("expected week context in prompt")
	}
	if !strings.Contains(prompt, `"Rut" (id: id-rut)`) {
		t.Fatalf("expected roster line in prompt")
	}

	if _, err := BuildParsePrompt("  ", nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty text")
	}
}
