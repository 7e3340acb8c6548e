package notes

import (
	"context"
	"errors"

	"family-planner-go/internal/db"
	domain "family-planner-go/internal/domain/notes"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db    *gorm.DB
	retry db.RetryPolicy
}

func NewPostgres(gormDB *gorm.DB, retry db.RetryPolicy) *PostgresRepository {
	return &PostgresRepository{db: gormDB, retry: retry}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx, retry: db.RetryPolicy{MaxAttempts: 1}})
		})
	})
}

func (r *PostgresRepository) ListDirectory(ctx context.Context, userID, path string) ([]domain.File, error) {
	var files []domain.File
	prefix := path
	if prefix == "/" {
		prefix = ""
	}
	err := r.retry.Do(ctx, func() error {
		files = files[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Where("file_path LIKE ? AND file_path NOT LIKE ?", prefix+"/%", prefix+"/%/%").
			Order("is_folder desc, name asc").
			Find(&files).Error
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresRepository) GetByPath(ctx context.Context, userID, path string) (*domain.File, error) {
	return r.getOne(ctx, r.db.Where("user_id = ? AND file_path = ?", userID, path))
}

func (r *PostgresRepository) GetFolder(ctx context.Context, userID, path string) (*domain.File, error) {
	return r.getOne(ctx, r.db.Where("user_id = ? AND file_path = ? AND is_folder = ?", userID, path, true))
}

func (r *PostgresRepository) GetFile(ctx context.Context, userID, path string) (*domain.File, error) {
	return r.getOne(ctx, r.db.Where("user_id = ? AND file_path = ? AND is_folder = ?", userID, path, false))
}

func (r *PostgresRepository) getOne(ctx context.Context, query *gorm.DB) (*domain.File, error) {
	var file domain.File
	err := r.retry.Do(ctx, func() error {
		return query.WithContext(ctx).First(&file).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *PostgresRepository) ListSubtree(ctx context.Context, userID, path string) ([]domain.File, error) {
	var files []domain.File
	err := r.retry.Do(ctx, func() error {
		files = files[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ? AND file_path LIKE ?", userID, path+"/%").
			Find(&files).Error
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *domain.File) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Create(file).Error
	})
}

func (r *PostgresRepository) Update(ctx context.Context, file *domain.File) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&domain.File{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"name":        file.Name,
				"file_path":   file.FilePath,
				"tags":        file.Tags,
				"description": file.Description,
			}).Error
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, fileID string) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", fileID).Error
	})
}

func (r *PostgresRepository) GetContent(ctx context.Context, fileID string) (*domain.Content, error) {
	var content domain.Content
	err := r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Where("file_id = ?", fileID).First(&content).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *PostgresRepository) SaveContent(ctx context.Context, content *domain.Content) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Save(content).Error
	})
}

func (r *PostgresRepository) DeleteContent(ctx context.Context, fileID string) error {
	return r.retry.Do(ctx, func() error {
		return r.db.WithContext(ctx).Delete(&domain.Content{}, "file_id = ?", fileID).Error
	})
}

func (r *PostgresRepository) SearchFiles(ctx context.Context, userID, search string) ([]domain.File, error) {
	var files []domain.File
	err := r.retry.Do(ctx, func() error {
		files = files[:0]
		query := r.db.WithContext(ctx).
			Where("user_id = ? AND is_folder = ?", userID, false)
		if search != "" {
			like := "%" + search + "%"
			query = query.Where("name ILIKE ? OR tags ILIKE ? OR file_path ILIKE ?", like, like, like)
		}
		return query.Order("file_path asc").Find(&files).Error
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresRepository) ListFolders(ctx context.Context, userID string) ([]domain.File, error) {
	var files []domain.File
	err := r.retry.Do(ctx, func() error {
		files = files[:0]
		return r.db.WithContext(ctx).
			Where("user_id = ? AND is_folder = ?", userID, true).
			Order("file_path asc").
			Find(&files).Error
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresRepository) DeleteProviderFiles(ctx context.Context, userID string) error {
	return r.retry.Do(ctx, func() error {
		if err := r.db.WithContext(ctx).
			Exec("DELETE FROM note_contents WHERE file_id IN (SELECT id FROM drive_files WHERE user_id = ? AND url IS NOT NULL AND url <> '')", userID).Error; err != nil {
			return err
		}
		return r.db.WithContext(ctx).
			Delete(&domain.File{}, "user_id = ? AND url IS NOT NULL AND url <> ''", userID).Error
	})
}
