package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListEvents(ctx context.Context, userID string, startMs, endMs *int64) ([]Event, error) {
	var rng EventRange
	if startMs != nil {
		start := MillisToTime(*startMs)
		rng.Start = &start
	}
	if endMs != nil {
		end := MillisToTime(*endMs)
		rng.End = &end
	}
	if rng.Start != nil && rng.End != nil && rng.End.Before(*rng.Start) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListEvents(ctx, userID, rng)
}

func (s *Service) CreateEvent(ctx context.Context, userID string, input EventInput) (*Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	start := MillisToTime(input.StartMs)
	end := MillisToTime(input.EndMs)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	event := &Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Notes:     input.Notes,
		Color:     input.Color,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, userID, eventID string, input UpdateEventInput) (*Event, error) {
	event, err := s.repo.GetEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	newStart := event.StartTime
	newEnd := event.EndTime
	if input.StartMs != nil {
		newStart = MillisToTime(*input.StartMs)
	}
	if input.EndMs != nil {
		newEnd = MillisToTime(*input.EndMs)
	}
	if newEnd.Before(newStart) {
		return nil, ErrInvalidRange
	}
	event.StartTime = newStart
	event.EndTime = newEnd

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		event.Title = title
	}
	if input.Notes != nil {
		event.Notes = input.Notes
	}
	if input.Color != nil {
		event.Color = input.Color
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *Service) DeleteEvent(ctx context.Context, userID, eventID string) error {
	deleted, err := s.repo.DeleteEvent(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !deleted {
		return ErrEventNotFound
	}
	return nil
}

// GetDayNote returns the note for a date. A missing note is not an
// error: callers get an empty note for the requested date.
func (s *Service) GetDayNote(ctx context.Context, userID, dateStr string) (*DayNote, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	note, err := s.repo.GetDayNote(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return &DayNote{UserID: userID, Date: date, Notes: ""}, nil
		}
		return nil, err
	}
	return note, nil
}

func (s *Service) SaveDayNote(ctx context.Context, userID, dateStr, notes string) (*DayNote, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.GetDayNote(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, ErrNoteNotFound) {
			return nil, err
		}
		note = &DayNote{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   date,
		}
	}
	note.Notes = notes

	if err := s.repo.UpsertDayNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save day note: %w", err)
	}
	return note, nil
}

func parseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return date, nil
}
