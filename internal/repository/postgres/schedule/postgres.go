package schedule

import (
	"context"
	"errors"

	"family-planner-go/internal/db"
	scheduledomain "family-planner-go/internal/domain/schedule"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db    *gorm.DB
	retry db.RetryPolicy
}

func NewPostgres(gormDB *gorm.DB, retry db.RetryPolicy) *PostgresRepository {
	return &PostgresRepository{db: gormDB, retry: retry}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(scheduledomain.Repository) error) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// No inner retries: a transient failure retries the whole
			// transaction from the top.
			return fn(&PostgresRepository{db: tx, retry: db.RetryPolicy{MaxAttempts: 1}})
		})
	})
}

func (r *PostgresRepository) ListMembers(ctx context.Context, userID string) ([]scheduledomain.Member, error) {
	var members []scheduledomain.Member
	err := r.retry.Do(ctx, func() error {
		members = members[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("sort_order asc, created_at asc").
			Find(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, userID, memberID string) (*scheduledomain.Member, error) {
	var member scheduledomain.Member
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND id = ?", userID, memberID).
			First(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *scheduledomain.Member) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(member).Error
	})
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *scheduledomain.Member) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&scheduledomain.Member{}).
			Where("id = ? AND user_id = ?", member.ID, member.UserID).
			Updates(map[string]interface{}{
				"name":       member.Name,
				"color":      member.Color,
				"icon":       member.Icon,
				"sort_order": member.SortOrder,
			}).Error
	})
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, userID, memberID string) (bool, error) {
	var affected int64
	err := r.retry.Do(ctx, func() error {
		result := r.db.WithContext(ctx).
			Delete(&scheduledomain.Member{}, "user_id = ? AND id = ?", userID, memberID)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *PostgresRepository) CountMemberActivities(ctx context.Context, memberID string) (int64, error) {
	var count int64
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&scheduledomain.ActivityParticipant{}).
			Where("member_id = ?", memberID).
			Count(&count).Error
	})
	return count, err
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*scheduledomain.Settings, error) {
	var settings scheduledomain.Settings
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			First(&settings).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *PostgresRepository) CreateSettings(ctx context.Context, settings *scheduledomain.Settings) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(settings).Error
	})
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, settings *scheduledomain.Settings) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&scheduledomain.Settings{}).
			Where("user_id = ?", settings.UserID).
			Updates(map[string]interface{}{
				"show_weekends": settings.ShowWeekends,
				"day_start":     settings.DayStart,
				"day_end":       settings.DayEnd,
			}).Error
	})
}

func (r *PostgresRepository) ListActivities(ctx context.Context, userID string, filter scheduledomain.ActivityFilter) ([]scheduledomain.Activity, error) {
	var activities []scheduledomain.Activity
	err := r.retry.Do(ctx, func() error {
		activities = activities[:0]
		query := r.db.WithContext(ctx).Where("user_id = ?", userID)
		if filter.Week != nil {
			query = query.Where("week = ?", *filter.Week)
		}
		if filter.Year != nil {
			query = query.Where("year = ?", *filter.Year)
		}
		return query.Order("year asc, week asc, day asc, start_time asc").Find(&activities).Error
	})
	if err != nil {
		return nil, err
	}
	if err := r.attachParticipants(ctx, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) ListActivitiesByDay(ctx context.Context, userID string, year, week int, day string) ([]scheduledomain.Activity, error) {
	var activities []scheduledomain.Activity
	err := r.retry.Do(ctx, func() error {
		activities = activities[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ? AND year = ? AND week = ? AND day = ?", userID, year, week, day).
			Find(&activities).Error
	})
	if err != nil {
		return nil, err
	}
	if err := r.attachParticipants(ctx, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) ListActivitiesBySeries(ctx context.Context, userID, seriesID string) ([]scheduledomain.Activity, error) {
	var activities []scheduledomain.Activity
	err := r.retry.Do(ctx, func() error {
		activities = activities[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ? AND series_id = ?", userID, seriesID).
			Order("year asc, week asc, day asc, start_time asc").
			Find(&activities).Error
	})
	if err != nil {
		return nil, err
	}
	if err := r.attachParticipants(ctx, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) GetActivity(ctx context.Context, userID, activityID string) (*scheduledomain.Activity, error) {
	var activity scheduledomain.Activity
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND id = ?", userID, activityID).
			First(&activity).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrActivityNotFound
		}
		return nil, err
	}
	slice := []scheduledomain.Activity{activity}
	if err := r.attachParticipants(ctx, slice); err != nil {
		return nil, err
	}
	return &slice[0], nil
}

func (r *PostgresRepository) CreateActivities(ctx context.Context, activities []*scheduledomain.Activity) error {
	return r.retry.Do(ctx, func() error {
		for _, activity := range activities {
			if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
				return err
			}
			for _, memberID := range activity.Participants {
				link := scheduledomain.ActivityParticipant{ActivityID: activity.ID, MemberID: memberID}
				if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *PostgresRepository) UpdateActivity(ctx context.Context, activity *scheduledomain.Activity) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&scheduledomain.Activity{}).
			Where("id = ? AND user_id = ?", activity.ID, activity.UserID).
			Updates(map[string]interface{}{
				"name":       activity.Name,
				"icon":       activity.Icon,
				"day":        activity.Day,
				"week":       activity.Week,
				"year":       activity.Year,
				"start_time": activity.StartTime,
				"end_time":   activity.EndTime,
				"location":   activity.Location,
				"notes":      activity.Notes,
				"color":      activity.Color,
			}).Error
	})
}

// ReplaceParticipants swaps the whole association set: clear then
// re-add, never a diff.
func (r *PostgresRepository) ReplaceParticipants(ctx context.Context, activityID string, memberIDs []string) error {
	return r.retry.Do(ctx, func() error {
		if err := r.db.WithContext(ctx).
			Delete(&scheduledomain.ActivityParticipant{}, "activity_id = ?", activityID).Error; err != nil {
			return err
		}
		for _, memberID := range memberIDs {
			link := scheduledomain.ActivityParticipant{ActivityID: activityID, MemberID: memberID}
			if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) DeleteActivity(ctx context.Context, userID, activityID string) (bool, error) {
	var affected int64
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Delete(&scheduledomain.Activity{}, "user_id = ? AND id = ?", userID, activityID)
			if result.Error != nil {
				return result.Error
			}
			affected = result.RowsAffected
			if affected == 0 {
				return nil
			}
			return tx.Delete(&scheduledomain.ActivityParticipant{}, "activity_id = ?", activityID).Error
		})
	})
	return affected > 0, err
}

func (r *PostgresRepository) DeleteSeries(ctx context.Context, userID, seriesID string) (int64, error) {
	var affected int64
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var ids []string
			if err := tx.Model(&scheduledomain.Activity{}).
				Where("user_id = ? AND series_id = ?", userID, seriesID).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			if len(ids) == 0 {
				affected = 0
				return nil
			}
			if err := tx.Delete(&scheduledomain.ActivityParticipant{}, "activity_id IN ?", ids).Error; err != nil {
				return err
			}
			result := tx.Delete(&scheduledomain.Activity{}, "id IN ?", ids)
			affected = result.RowsAffected
			return result.Error
		})
	})
	return affected, err
}

func (r *PostgresRepository) attachParticipants(ctx context.Context, activities []scheduledomain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	ids := make([]string, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ID)
	}

	var links []scheduledomain.ActivityParticipant
	err := r.retry.Do(ctx, func() error {
		links = links[:0]
		return r.db.WithContext(ctx).
			Where("activity_id IN ?", ids).
			Find(&links).Error
	})
	if err != nil {
		return err
	}

	byActivity := make(map[string][]string, len(activities))
	for _, link := range links {
		byActivity[link.ActivityID] = append(byActivity[link.ActivityID], link.MemberID)
	}
	for i := range activities {
		participants := byActivity[activities[i].ID]
		if participants == nil {
			participants = []string{}
		}
		activities[i].Participants = participants
	}
	return nil
}
