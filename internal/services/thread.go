package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/repos"
	"github.com/verba-app/verba-backend/internal/types"
)

var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrForbidden      = errors.New("forbidden")
)

// Thread titles derive from the first query, truncated to this many
// runes plus an ellipsis marker.
const threadTitleMaxLen = 50

// ThreadService mediates every persistence side effect of the search
// pipeline and serves thread retrieval. It carries no business logic
// beyond title derivation and ownership checks; persistence errors
// propagate unchanged.
type ThreadService interface {
	CreateThread(ctx context.Context, userID, query string) (*types.Thread, error)
	CreateItem(ctx context.Context, threadID uuid.UUID, userID, query string) (*types.ThreadItem, error)
	AttachSearchResults(ctx context.Context, itemID uuid.UUID, results []core.SearchResult) (*types.ThreadItem, error)
	CompleteWithAnswer(ctx context.Context, itemID uuid.UUID, llmResponse string) (*types.ThreadItem, error)
	CompleteWithCitations(ctx context.Context, itemID uuid.UUID, llmResponse string, citations []core.Citation) (*types.ThreadItem, error)
	CompleteWithCitationsAndVocabulary(ctx context.Context, itemID uuid.UUID, llmResponse string, citations []core.Citation, vocabulary []core.VocabularyWord) (*types.ThreadItem, error)

	ResolveThread(ctx context.Context, threadID uuid.UUID) (*types.Thread, error)
	GetThread(ctx context.Context, userID string, threadID uuid.UUID) (*types.Thread, []*types.ThreadItem, error)
	ListThreads(ctx context.Context, userID string, limit, offset int) ([]*types.Thread, error)
	DeleteThread(ctx context.Context, userID string, threadID uuid.UUID) error
}

type threadService struct {
	log            *logger.Logger
	threadRepo     repos.ThreadRepo
	threadItemRepo repos.ThreadItemRepo
}

func NewThreadService(log *logger.Logger, threadRepo repos.ThreadRepo, threadItemRepo repos.ThreadItemRepo) ThreadService {
	return &threadService{
		log:            log.With("service", "ThreadService"),
		threadRepo:     threadRepo,
		threadItemRepo: threadItemRepo,
	}
}

// DeriveTitle truncates the first query into a display title.
func DeriveTitle(query string) string {
	runes := []rune(query)
	if len(runes) <= threadTitleMaxLen {
		return query
	}
	return string(runes[:threadTitleMaxLen]) + "..."
}

func (ts *threadService) CreateThread(ctx context.Context, userID, query string) (*types.Thread, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required for creating new threads")
	}
	thread := &types.Thread{
		UserID: userID,
		Title:  DeriveTitle(query),
	}
	return ts.threadRepo.Create(ctx, nil, thread)
}

func (ts *threadService) CreateItem(ctx context.Context, threadID uuid.UUID, userID, query string) (*types.ThreadItem, error) {
	item := &types.ThreadItem{
		ThreadID: threadID,
		UserID:   userID,
		Query:    query,
	}
	return ts.threadItemRepo.Create(ctx, nil, item)
}

func (ts *threadService) AttachSearchResults(ctx context.Context, itemID uuid.UUID, results []core.SearchResult) (*types.ThreadItem, error) {
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshal search results: %w", err)
	}
	return ts.threadItemRepo.UpdateSearchResults(ctx, nil, itemID, datatypes.JSON(raw))
}

func (ts *threadService) CompleteWithAnswer(ctx context.Context, itemID uuid.UUID, llmResponse string) (*types.ThreadItem, error) {
	return ts.complete(ctx, itemID, llmResponse, nil, nil)
}

func (ts *threadService) CompleteWithCitations(ctx context.Context, itemID uuid.UUID, llmResponse string, citations []core.Citation) (*types.ThreadItem, error) {
	return ts.complete(ctx, itemID, llmResponse, citations, nil)
}

func (ts *threadService) CompleteWithCitationsAndVocabulary(ctx context.Context, itemID uuid.UUID, llmResponse string, citations []core.Citation, vocabulary []core.VocabularyWord) (*types.ThreadItem, error) {
	return ts.complete(ctx, itemID, llmResponse, citations, vocabulary)
}

func (ts *threadService) complete(ctx context.Context, itemID uuid.UUID, llmResponse string, citations []core.Citation, vocabulary []core.VocabularyWord) (*types.ThreadItem, error) {
	var citationsJSON, vocabularyJSON datatypes.JSON
	if len(citations) > 0 {
		raw, err := json.Marshal(citations)
		if err != nil {
			return nil, fmt.Errorf("marshal citations: %w", err)
		}
		citationsJSON = datatypes.JSON(raw)
	}
	if len(vocabulary) > 0 {
		raw, err := json.Marshal(vocabulary)
		if err != nil {
			return nil, fmt.Errorf("marshal vocabulary: %w", err)
		}
		vocabularyJSON = datatypes.JSON(raw)
	}

	item, err := ts.threadItemRepo.Complete(ctx, nil, itemID, llmResponse, citationsJSON, vocabularyJSON)
	if err != nil {
		return nil, err
	}
	if err := ts.threadRepo.TouchActivity(ctx, nil, item.ThreadID); err != nil {
		return nil, err
	}
	return item, nil
}

// ResolveThread loads a thread without an ownership check. The search
// pipeline uses it when a submission names an existing thread, where
// the caller may omit userId entirely.
func (ts *threadService) ResolveThread(ctx context.Context, threadID uuid.UUID) (*types.Thread, error) {
	thread, err := ts.threadRepo.GetByID(ctx, nil, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

func (ts *threadService) GetThread(ctx context.Context, userID string, threadID uuid.UUID) (*types.Thread, []*types.ThreadItem, error) {
	thread, err := ts.threadRepo.GetByID(ctx, nil, threadID)
	if err != nil {
		return nil, nil, err
	}
	if thread == nil {
		return nil, nil, ErrThreadNotFound
	}
	if thread.UserID != "" && thread.UserID != userID {
		return nil, nil, ErrForbidden
	}
	items, err := ts.threadItemRepo.ListByThread(ctx, nil, threadID)
	if err != nil {
		return nil, nil, err
	}
	return thread, items, nil
}

func (ts *threadService) ListThreads(ctx context.Context, userID string, limit, offset int) ([]*types.Thread, error) {
	return ts.threadRepo.ListByUser(ctx, nil, userID, limit, offset)
}

func (ts *threadService) DeleteThread(ctx context.Context, userID string, threadID uuid.UUID) error {
	thread, err := ts.threadRepo.GetByID(ctx, nil, threadID)
	if err != nil {
		return err
	}
	if thread == nil {
		return ErrThreadNotFound
	}
	if thread.UserID != "" && thread.UserID != userID {
		return ErrForbidden
	}
	return ts.threadRepo.Delete(ctx, nil, threadID)
}
