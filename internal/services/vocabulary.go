package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/llm"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/repos"
	"github.com/verba-app/verba-backend/internal/types"
)

// GenerateVocabularyRequest describes one word the user asked to learn.
// SearchContext and UsageContext feed the generation prompt; both are
// optional.
type GenerateVocabularyRequest struct {
	Word          string `json:"word"`
	ThreadItemID  string `json:"threadItemId"`
	SearchContext string `json:"searchContext,omitempty"`
	UsageContext  string `json:"usageContext,omitempty"`
}

// VocabularyService produces and serves dictionary-style learning
// content for marked words. Generation is cached two ways: an entry for
// the same (word, item) is returned as-is, and an entry for the same
// (word, user) from another item is copied forward without calling the
// model again.
type VocabularyService interface {
	GenerateContent(ctx context.Context, userID string, req GenerateVocabularyRequest) (*types.VocabularyEntry, error)
	ListEntries(ctx context.Context, userID string) ([]*types.VocabularyEntry, error)
}

type vocabularyService struct {
	log       *logger.Logger
	vocabRepo repos.VocabularyRepo
	llmClient llm.Client
}

func NewVocabularyService(log *logger.Logger, vocabRepo repos.VocabularyRepo, llmClient llm.Client) VocabularyService {
	return &vocabularyService{
		log:       log.With("service", "VocabularyService"),
		vocabRepo: vocabRepo,
		llmClient: llmClient,
	}
}

func (vs *vocabularyService) GenerateContent(ctx context.Context, userID string, req GenerateVocabularyRequest) (*types.VocabularyEntry, error) {
	word := strings.TrimSpace(req.Word)
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}
	itemID, err := uuid.Parse(req.ThreadItemID)
	if err != nil {
		return nil, fmt.Errorf("threadItemId is not a valid uuid")
	}

	// Exact cache hit: this word was already generated for this item.
	existing, err := vs.vocabRepo.GetByWordAndItem(ctx, nil, word, itemID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Cross-item reuse: the same user looked this word up elsewhere.
	// The content is copied onto this item so deleting the other thread
	// cannot orphan it.
	prior, err := vs.vocabRepo.GetByWordAndUser(ctx, nil, word, userID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return vs.vocabRepo.Upsert(ctx, nil, &types.VocabularyEntry{
			Word:         word,
			ThreadItemID: itemID,
			UserID:       userID,
			Content:      prior.Content,
		})
	}

	content, err := vs.generate(ctx, word, req.SearchContext, req.UsageContext)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal vocabulary content: %w", err)
	}
	return vs.vocabRepo.Upsert(ctx, nil, &types.VocabularyEntry{
		Word:         word,
		ThreadItemID: itemID,
		UserID:       userID,
		Content:      datatypes.JSON(raw),
	})
}

func (vs *vocabularyService) generate(ctx context.Context, word, searchContext, usageContext string) (*core.VocabularyContent, error) {
	prompt := llm.BuildVocabularyPrompt(word, searchContext, usageContext)
	text, err := vs.llmClient.GenerateText(ctx, prompt, core.DefaultModel)
	if err != nil {
		return nil, err
	}

	var content core.VocabularyContent
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &content); err != nil {
		vs.log.Warn("model returned unparseable vocabulary content", "word", word, "error", err)
		return nil, fmt.Errorf("failed to parse vocabulary content for %q", word)
	}
	if content.Word == "" {
		content.Word = word
	}
	return &content, nil
}

// stripCodeFences unwraps a ```json ... ``` block the model sometimes
// wraps its output in.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// ListEntries returns the user's vocabulary deduplicated by word. The
// repo orders by updated_at descending, so the first entry seen for a
// word is the freshest one.
func (vs *vocabularyService) ListEntries(ctx context.Context, userID string) ([]*types.VocabularyEntry, error) {
	entries, err := vs.vocabRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	deduped := make([]*types.VocabularyEntry, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Word)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, entry)
	}
	return deduped, nil
}
