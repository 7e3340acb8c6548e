package user

import (
	"context"
	"errors"
	"time"

	"family-planner-go/internal/db"
	domain "family-planner-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db    *gorm.DB
	retry db.RetryPolicy
}

func NewPostgres(gormDB *gorm.DB, retry db.RetryPolicy) *PostgresRepository {
	return &PostgresRepository{db: gormDB, retry: retry}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Where("lower(username) = lower(?)", username).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(user).Error
	})
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&domain.User{}).
			Where("id = ?", id).
			Update("last_login", time.Now().UTC()).Error
	})
}
