package planner

import (
	"context"

	"family-planner-go/internal/db"
	plannerdomain "family-planner-go/internal/domain/planner"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db    *gorm.DB
	retry db.RetryPolicy
}

func NewPostgres(gormDB *gorm.DB, retry db.RetryPolicy) *PostgresRepository {
	return &PostgresRepository{db: gormDB, retry: retry}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(plannerdomain.Repository) error) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx, retry: db.RetryPolicy{MaxAttempts: 1}})
		})
	})
}

func archiveScope(query *gorm.DB, archive *string) *gorm.DB {
	if archive == nil {
		return query.Where("archive_name IS NULL")
	}
	return query.Where("archive_name = ?", *archive)
}

func (r *PostgresRepository) ListByArchive(ctx context.Context, userID string, archive *string) ([]plannerdomain.Activity, error) {
	var activities []plannerdomain.Activity
	err := r.retry.Do(ctx, func() error {
		activities = activities[:0]
		return archiveScope(r.db.WithContext(ctx).Where("user_id = ?", userID), archive).
			Order("day asc, start_time asc").
			Find(&activities).Error
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) ListArchiveNames(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.retry.Do(ctx, func() error {
		names = names[:0]
		return r.db.WithContext(ctx).
			Model(&plannerdomain.Activity{}).
			Where("user_id = ? AND archive_name IS NOT NULL", userID).
			Distinct("archive_name").
			Order("archive_name asc").
			Pluck("archive_name", &names).Error
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *PostgresRepository) CreateActivities(ctx context.Context, activities []*plannerdomain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(activities).Error
	})
}

func (r *PostgresRepository) DeleteByArchive(ctx context.Context, userID string, archive *string) (int64, error) {
	var deleted int64
	err := r.retry.Do(ctx, func() error {
		result := archiveScope(r.db.WithContext(ctx).Where("user_id = ?", userID), archive).
			Delete(&plannerdomain.Activity{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
