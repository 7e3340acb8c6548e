package calendar

import (
	"context"
	"time"
)

type Repository interface {
	ListEvents(ctx context.Context, userID string, rng EventRange) ([]Event, error)
	GetEvent(ctx context.Context, userID, eventID string) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, userID, eventID string) (bool, error)

	GetDayNote(ctx context.Context, userID string, date time.Time) (*DayNote, error)
	UpsertDayNote(ctx context.Context, note *DayNote) error
}
