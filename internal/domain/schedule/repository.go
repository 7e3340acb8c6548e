package schedule

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListMembers(ctx context.Context, userID string) ([]Member, error)
	GetMember(ctx context.Context, userID, memberID string) (*Member, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, userID, memberID string) (bool, error)
	CountMemberActivities(ctx context.Context, memberID string) (int64, error)

	GetSettings(ctx context.Context, userID string) (*Settings, error)
	CreateSettings(ctx context.Context, settings *Settings) error
	UpdateSettings(ctx context.Context, settings *Settings) error

	ListActivities(ctx context.Context, userID string, filter ActivityFilter) ([]Activity, error)
	ListActivitiesByDay(ctx context.Context, userID string, year, week int, day string) ([]Activity, error)
	ListActivitiesBySeries(ctx context.Context, userID, seriesID string) ([]Activity, error)
	GetActivity(ctx context.Context, userID, activityID string) (*Activity, error)
	CreateActivities(ctx context.Context, activities []*Activity) error
	UpdateActivity(ctx context.Context, activity *Activity) error
	ReplaceParticipants(ctx context.Context, activityID string, memberIDs []string) error
	DeleteActivity(ctx context.Context, userID, activityID string) (bool, error)
	DeleteSeries(ctx context.Context, userID, seriesID string) (int64, error)
}
