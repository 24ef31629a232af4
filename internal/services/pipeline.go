package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/extract"
	"github.com/verba-app/verba-backend/internal/llm"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/search"
)

// Caps how many results one submission collects regardless of backend.
const searchResultLimit = 10

// Errors surfaced to clients drop transport prefixes the LLM client
// attaches for its own callers.
var errorPrefixPattern = regexp.MustCompile(`(?i)^(Error:|LLM API error:)\s*`)

// SearchPipeline runs one query submission end to end: thread
// resolution, search, answer generation, extraction and persistence,
// streaming typed events as each stage produces output.
type SearchPipeline interface {
	Run(ctx context.Context, req core.SearchRequest) <-chan core.Event
}

type searchPipeline struct {
	log       *logger.Logger
	threads   ThreadService
	searchSvc search.Service
	llmClient llm.Client
	notifier  Notifier
}

func NewSearchPipeline(log *logger.Logger, threads ThreadService, searchSvc search.Service, llmClient llm.Client, notifier Notifier) SearchPipeline {
	return &searchPipeline{
		log:       log.With("service", "SearchPipeline"),
		threads:   threads,
		searchSvc: searchSvc,
		llmClient: llmClient,
		notifier:  notifier,
	}
}

// Run returns a channel that delivers the submission's events in stage
// order and closes after exactly one terminal event. Failures after the
// thread item exists leave it persisted and incomplete; the error event
// still ends the stream.
func (sp *searchPipeline) Run(ctx context.Context, req core.SearchRequest) <-chan core.Event {
	out := make(chan core.Event)
	go func() {
		defer close(out)
		sp.run(ctx, req, out)
	}()
	return out
}

func (sp *searchPipeline) emit(ctx context.Context, out chan<- core.Event, ev core.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (sp *searchPipeline) fail(ctx context.Context, out chan<- core.Event, err error) {
	msg := errorPrefixPattern.ReplaceAllString(err.Error(), "")
	sp.emit(ctx, out, core.ErrorEvent(msg))
}

func (sp *searchPipeline) run(ctx context.Context, req core.SearchRequest, out chan<- core.Event) {
	if err := req.Validate(); err != nil {
		sp.fail(ctx, out, err)
		return
	}
	req.Normalize()

	start := time.Now()
	log := sp.log.With("query", req.Query, "provider", req.SearchProvider, "model", req.LLMModel)

	// Thread resolution. An explicit threadId appends to the existing
	// thread; otherwise a new thread is created and announced first.
	var (
		threadID uuid.UUID
		userID   = req.UserID
	)
	if req.ThreadID != "" {
		parsed, err := uuid.Parse(req.ThreadID)
		if err != nil {
			sp.fail(ctx, out, fmt.Errorf("threadId is not a valid uuid"))
			return
		}
		threadID = parsed
		thread, err := sp.threads.ResolveThread(ctx, threadID)
		if err != nil {
			sp.fail(ctx, out, err)
			return
		}
		if userID == "" {
			userID = thread.UserID
		}
	} else {
		thread, err := sp.threads.CreateThread(ctx, userID, req.Query)
		if err != nil {
			sp.fail(ctx, out, err)
			return
		}
		threadID = thread.ID
		if !sp.emit(ctx, out, core.ThreadCreatedEvent(core.ThreadCreatedData{
			ThreadID:  thread.ID.String(),
			UserID:    thread.UserID,
			Title:     thread.Title,
			CreatedAt: thread.CreatedAt,
		})) {
			return
		}
	}

	item, err := sp.threads.CreateItem(ctx, threadID, userID, req.Query)
	if err != nil {
		sp.fail(ctx, out, err)
		return
	}

	// Search stage: every result is forwarded as soon as the backend
	// yields it, and accumulated for the prompt.
	var results []core.SearchResult
	opts := core.SearchOptions{Limit: searchResultLimit, Filters: req.SearchFilters}
	err = sp.searchSvc.Search(ctx, req.Query, req.SearchProvider, opts, func(result core.SearchResult) error {
		results = append(results, result)
		if !sp.emit(ctx, out, core.SearchResultEvent(result)) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		sp.fail(ctx, out, err)
		return
	}

	if _, err := sp.threads.AttachSearchResults(ctx, item.ID, results); err != nil {
		sp.fail(ctx, out, err)
		return
	}

	// Generation stage. A failure here leaves the item incomplete with
	// its search results intact.
	interrupted := false
	answer, err := sp.llmClient.StreamAnswer(ctx, req.Query, results, req.Options(), func(delta string) {
		if !sp.emit(ctx, out, core.LLMChunkEvent(delta)) {
			interrupted = true
		}
	})
	if interrupted {
		return
	}
	if err != nil {
		log.Error("answer generation failed", "threadItemId", item.ID, "error", err)
		sp.fail(ctx, out, err)
		return
	}

	vocabulary := extract.Vocabulary(answer)
	citations := extract.Citations(answer, results)

	if _, err := sp.threads.CompleteWithCitationsAndVocabulary(ctx, item.ID, answer, citations, vocabulary); err != nil {
		sp.fail(ctx, out, err)
		return
	}

	sp.notifier.NotifyThreadUpdated(ctx, userID, ThreadActivity{
		ThreadID:     threadID,
		ThreadItemID: item.ID,
		UpdatedAt:    time.Now().UTC(),
	})

	if len(vocabulary) > 0 {
		if !sp.emit(ctx, out, core.VocabularyEvent(vocabulary)) {
			return
		}
	}
	if len(citations) > 0 {
		if !sp.emit(ctx, out, core.CitationsEvent(citations)) {
			return
		}
	}

	log.Info("search pipeline finished",
		"threadId", threadID,
		"threadItemId", item.ID,
		"results", len(results),
		"citations", len(citations),
		"vocabulary", len(vocabulary),
		"duration", time.Since(start))

	sp.emit(ctx, out, core.CompleteEvent(core.CompleteData{
		ThreadItemID: item.ID.String(),
		ThreadID:     threadID.String(),
		IsComplete:   true,
	}))
}
