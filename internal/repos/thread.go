package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/types"
)

type ThreadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, thread *types.Thread) (*types.Thread, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Thread, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit, offset int) ([]*types.Thread, error)
	TouchActivity(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type threadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThreadRepo(db *gorm.DB, baseLog *logger.Logger) ThreadRepo {
	return &threadRepo{db: db, log: baseLog.With("repo", "ThreadRepo")}
}

func (tr *threadRepo) Create(ctx context.Context, tx *gorm.DB, thread *types.Thread) (*types.Thread, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

func (tr *threadRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Thread, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Thread
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (tr *threadRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit, offset int) ([]*types.Thread, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var results []*types.Thread
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *threadRepo) TouchActivity(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Thread{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("now()")).Error
}

func (tr *threadRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	result := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Thread{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
