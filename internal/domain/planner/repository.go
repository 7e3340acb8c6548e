package planner

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// ListByArchive returns the activities of one timetable: the live
	// one for a nil archive, a snapshot otherwise.
	ListByArchive(ctx context.Context, userID string, archive *string) ([]Activity, error)
	ListArchiveNames(ctx context.Context, userID string) ([]string, error)
	CreateActivities(ctx context.Context, activities []*Activity) error
	DeleteByArchive(ctx context.Context, userID string, archive *string) (int64, error)
}
