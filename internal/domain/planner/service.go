package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service manages weekly timetables. Each user has one live timetable
// plus named archive snapshots; a sync replaces a whole timetable in
// one transaction.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string, archive *string) ([]Activity, error) {
	activities, err := s.repo.ListByArchive(ctx, userID, archive)
	if err != nil {
		return nil, fmt.Errorf("list planner activities: %w", err)
	}
	return activities, nil
}

func (s *Service) Archives(ctx context.Context, userID string) ([]string, error) {
	names, err := s.repo.ListArchiveNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list planner archives: %w", err)
	}
	return names, nil
}

// Sync replaces the addressed timetable with the given activities.
// All slots are validated before anything is written; a bad slot
// rejects the whole batch.
func (s *Service) Sync(ctx context.Context, userID string, archive *string, inputs []ActivityInput) (int, error) {
	activities := make([]*Activity, 0, len(inputs))
	for i, input := range inputs {
		activity, err := buildActivity(userID, archive, input)
		if err != nil {
			return 0, fmt.Errorf("activity %d: %w", i, err)
		}
		activities = append(activities, activity)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.DeleteByArchive(ctx, userID, archive); err != nil {
			return err
		}
		return tx.CreateActivities(ctx, activities)
	})
	if err != nil {
		return 0, fmt.Errorf("sync planner activities: %w", err)
	}
	return len(activities), nil
}

func (s *Service) Delete(ctx context.Context, userID string, archive *string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.DeleteByArchive(ctx, userID, archive)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete planner activities: %w", err)
	}
	return nil
}

func buildActivity(userID string, archive *string, input ActivityInput) (*Activity, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title", "title is required")
	}
	day := strings.TrimSpace(input.Day)
	if day == "" {
		return nil, validationf("day", "day is required")
	}
	if input.StartTime == "" {
		return nil, validationf("startTime", "startTime is required")
	}
	if input.EndTime == "" {
		return nil, validationf("endTime", "endTime is required")
	}
	if input.Duration == nil {
		return nil, validationf("duration", "duration must be an integer")
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Activity{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Teacher:     input.Teacher,
		Room:        input.Room,
		Notes:       input.Notes,
		Day:         day,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Color:       input.Color,
		Duration:    *input.Duration,
		ArchiveName: archive,
	}, nil
}
