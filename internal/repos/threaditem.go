package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/types"
)

type ThreadItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.ThreadItem) (*types.ThreadItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ThreadItem, error)
	ListByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*types.ThreadItem, error)
	UpdateSearchResults(ctx context.Context, tx *gorm.DB, id uuid.UUID, searchResults datatypes.JSON) (*types.ThreadItem, error)
	Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, llmResponse string, citations, vocabulary datatypes.JSON) (*types.ThreadItem, error)
}

type threadItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThreadItemRepo(db *gorm.DB, baseLog *logger.Logger) ThreadItemRepo {
	return &threadItemRepo{db: db, log: baseLog.With("repo", "ThreadItemRepo")}
}

func (tir *threadItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.ThreadItem) (*types.ThreadItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tir.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (tir *threadItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ThreadItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tir.db
	}
	var result types.ThreadItem
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

func (tir *threadItemRepo) ListByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*types.ThreadItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tir.db
	}
	var results []*types.ThreadItem
	if err := transaction.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tir *threadItemRepo) UpdateSearchResults(ctx context.Context, tx *gorm.DB, id uuid.UUID, searchResults datatypes.JSON) (*types.ThreadItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tir.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ThreadItem{}).
		Where("id = ?", id).
		Update("search_results", searchResults).Error; err != nil {
		return nil, err
	}
	return tir.GetByID(ctx, tx, id)
}

// Complete writes the answer, citations, vocabulary and the completion
// flag in one update so a ThreadItem never becomes complete without its
// artifacts.
func (tir *threadItemRepo) Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, llmResponse string, citations, vocabulary datatypes.JSON) (*types.ThreadItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tir.db
	}
	updates := map[string]any{
		"llm_response": llmResponse,
		"is_complete":  true,
	}
	if citations != nil {
		updates["citations"] = citations
	}
	if vocabulary != nil {
		updates["vocabulary"] = vocabulary
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ThreadItem{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return tir.GetByID(ctx, tx, id)
}
