package calendar

import (
	"context"
	"errors"
	"time"

	"family-planner-go/internal/db"
	domain "family-planner-go/internal/domain/calendar"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db    *gorm.DB
	retry db.RetryPolicy
}

func NewPostgres(gormDB *gorm.DB, retry db.RetryPolicy) *PostgresRepository {
	return &PostgresRepository{db: gormDB, retry: retry}
}

func (r *PostgresRepository) ListEvents(ctx context.Context, userID string, rng domain.EventRange) ([]domain.Event, error) {
	var events []domain.Event
	err := r.retry.Do(ctx, func() error {
		events = events[:0]
		query := r.db.WithContext(ctx).Where("user_id = ?", userID)
		if rng.Start != nil {
			query = query.Where("start_time >= ?", *rng.Start)
		}
		if rng.End != nil {
			query = query.Where("end_time <= ?", *rng.End)
		}
		return query.Order("start_time asc").Find(&events).Error
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *PostgresRepository) GetEvent(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	var event domain.Event
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND id = ?", userID, eventID).
			First(&event).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(event).Error
	})
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, event *domain.Event) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&domain.Event{}).
			Where("id = ? AND user_id = ?", event.ID, event.UserID).
			Updates(map[string]interface{}{
				"title":      event.Title,
				"start_time": event.StartTime,
				"end_time":   event.EndTime,
				"notes":      event.Notes,
				"color":      event.Color,
			}).Error
	})
}

func (r *PostgresRepository) DeleteEvent(ctx context.Context, userID, eventID string) (bool, error) {
	var affected int64
	err := r.retry.Do(ctx, func() error {
		result := r.db.WithContext(ctx).
			Delete(&domain.Event{}, "user_id = ? AND id = ?", userID, eventID)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *PostgresRepository) GetDayNote(ctx context.Context, userID string, date time.Time) (*domain.DayNote, error) {
	var note domain.DayNote
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
			First(&note).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *PostgresRepository) UpsertDayNote(ctx context.Context, note *domain.DayNote) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"notes":      note.Notes,
					"updated_at": time.Now().UTC(),
				}),
			}).
			Create(note).Error
	})
}
