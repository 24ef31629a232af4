package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/types"
)

type VocabularyRepo interface {
	GetByWordAndItem(ctx context.Context, tx *gorm.DB, word string, threadItemID uuid.UUID, userID string) (*types.VocabularyEntry, error)
	GetByWordAndUser(ctx context.Context, tx *gorm.DB, word string, userID string) (*types.VocabularyEntry, error)
	Upsert(ctx context.Context, tx *gorm.DB, entry *types.VocabularyEntry) (*types.VocabularyEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.VocabularyEntry, error)
}

type vocabularyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVocabularyRepo(db *gorm.DB, baseLog *logger.Logger) VocabularyRepo {
	return &vocabularyRepo{db: db, log: baseLog.With("repo", "VocabularyRepo")}
}

func (vr *vocabularyRepo) GetByWordAndItem(ctx context.Context, tx *gorm.DB, word string, threadItemID uuid.UUID, userID string) (*types.VocabularyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.VocabularyEntry
	if err := transaction.WithContext(ctx).
		Where("word = ? AND thread_item_id = ? AND user_id = ?", word, threadItemID, userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (vr *vocabularyRepo) GetByWordAndUser(ctx context.Context, tx *gorm.DB, word string, userID string) (*types.VocabularyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.VocabularyEntry
	if err := transaction.WithContext(ctx).
		Where("word = ? AND user_id = ?", word, userID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Upsert inserts the entry or, when (word, thread_item_id) already
// exists, refreshes its content. A retried request therefore never
// trips the unique index.
func (vr *vocabularyRepo) Upsert(ctx context.Context, tx *gorm.DB, entry *types.VocabularyEntry) (*types.VocabularyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "word"}, {Name: "thread_item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"content":    entry.Content,
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (vr *vocabularyRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.VocabularyEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []*types.VocabularyEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
