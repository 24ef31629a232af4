package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/types"
)

type fakeThreads struct {
	thread    *types.Thread
	item      *types.ThreadItem
	attached  []core.SearchResult
	completed bool
	answer    string
	citations []core.Citation
	vocab     []core.VocabularyWord
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{
		thread: &types.Thread{ID: uuid.New(), UserID: "user-1", Title: "t"},
		item:   &types.ThreadItem{ID: uuid.New()},
	}
}

func (f *fakeThreads) CreateThread(_ context.Context, userID, query string) (*types.Thread, error) {
	f.thread.UserID = userID
	f.thread.Title = DeriveTitle(query)
	return f.thread, nil
}

func (f *fakeThreads) CreateItem(_ context.Context, threadID uuid.UUID, userID, query string) (*types.ThreadItem, error) {
	f.item.ThreadID = threadID
	f.item.UserID = userID
	f.item.Query = query
	return f.item, nil
}

func (f *fakeThreads) AttachSearchResults(_ context.Context, _ uuid.UUID, results []core.SearchResult) (*types.ThreadItem, error) {
	f.attached = results
	return f.item, nil
}

func (f *fakeThreads) CompleteWithAnswer(_ context.Context, _ uuid.UUID, llmResponse string) (*types.ThreadItem, error) {
	f.completed = true
	f.answer = llmResponse
	return f.item, nil
}

func (f *fakeThreads) CompleteWithCitations(_ context.Context, _ uuid.UUID, llmResponse string, citations []core.Citation) (*types.ThreadItem, error) {
	f.completed = true
	f.answer = llmResponse
	f.citations = citations
	return f.item, nil
}

func (f *fakeThreads) CompleteWithCitationsAndVocabulary(_ context.Context, _ uuid.UUID, llmResponse string, citations []core.Citation, vocabulary []core.VocabularyWord) (*types.ThreadItem, error) {
	f.completed = true
	f.answer = llmResponse
	f.citations = citations
	f.vocab = vocabulary
	return f.item, nil
}

func (f *fakeThreads) ResolveThread(_ context.Context, threadID uuid.UUID) (*types.Thread, error) {
	if f.thread == nil || f.thread.ID != threadID {
		return nil, ErrThreadNotFound
	}
	return f.thread, nil
}

func (f *fakeThreads) GetThread(_ context.Context, _ string, _ uuid.UUID) (*types.Thread, []*types.ThreadItem, error) {
	return f.thread, nil, nil
}

func (f *fakeThreads) ListThreads(_ context.Context, _ string, _, _ int) ([]*types.Thread, error) {
	return []*types.Thread{f.thread}, nil
}

func (f *fakeThreads) DeleteThread(_ context.Context, _ string, _ uuid.UUID) error { return nil }

type fakeSearch struct {
	results []core.SearchResult
	err     error
}

func (f *fakeSearch) Search(_ context.Context, _ string, _ string, _ core.SearchOptions, onResult func(core.SearchResult) error) error {
	for _, r := range f.results {
		if err := onResult(r); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeSearch) AvailableProviders() []string { return []string{"brave"} }

type fakeLLM struct {
	chunks []string
	err    error
}

func (f *fakeLLM) StreamAnswer(_ context.Context, _ string, _ []core.SearchResult, _ core.LLMOptions, onDelta func(string)) (string, error) {
	var full strings.Builder
	for _, c := range f.chunks {
		onDelta(c)
		full.WriteString(c)
	}
	if f.err != nil {
		return "", f.err
	}
	return full.String(), nil
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string, _ string) (string, error) {
	return "", errors.New("not implemented")
}

func collectEvents(t *testing.T, ch <-chan core.Event) []core.Event {
	t.Helper()
	var events []core.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func newTestPipeline(threads ThreadService, searchSvc *fakeSearch, llmClient *fakeLLM) SearchPipeline {
	return NewSearchPipeline(logger.NewNop(), threads, searchSvc, llmClient, NewNoopNotifier())
}

func TestPipelineEventOrderForNewThread(t *testing.T) {
	threads := newFakeThreads()
	searchSvc := &fakeSearch{results: []core.SearchResult{
		{URL: "https://a.example", Title: "A", Snippet: "first"},
		{URL: "https://b.example", Title: "B", Snippet: "second"},
	}}
	llmClient := &fakeLLM{chunks: []string{
		"Photosynthesis‌‍ converts light ",
		"to energy [1] and sugar [2].",
	}}
	pipeline := newTestPipeline(threads, searchSvc, llmClient)

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:  "how does photosynthesis work?",
		UserID: "user-1",
	}))

	want := []core.EventType{
		core.EventThreadCreated,
		core.EventSearchResult,
		core.EventSearchResult,
		core.EventLLMChunk,
		core.EventLLMChunk,
		core.EventVocabulary,
		core.EventCitations,
		core.EventComplete,
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, ev.Type, want[i])
		}
	}

	terminals := 0
	for _, ev := range events {
		if ev.Terminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("got %d terminal events, want exactly 1", terminals)
	}

	if !threads.completed {
		t.Fatal("thread item was not completed")
	}
	if len(threads.attached) != 2 {
		t.Fatalf("got %d attached results, want 2", len(threads.attached))
	}
	if len(threads.citations) != 2 {
		t.Fatalf("got %d persisted citations, want 2", len(threads.citations))
	}
	if len(threads.vocab) != 1 || threads.vocab[0].Word != "Photosynthesis" {
		t.Fatalf("unexpected persisted vocabulary: %+v", threads.vocab)
	}
}

func TestPipelineExistingThreadSkipsThreadCreated(t *testing.T) {
	threads := newFakeThreads()
	pipeline := newTestPipeline(threads, &fakeSearch{}, &fakeLLM{chunks: []string{"plain answer"}})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:    "follow-up question",
		ThreadID: threads.thread.ID.String(),
	}))

	for _, ev := range events {
		if ev.Type == core.EventThreadCreated {
			t.Fatal("thread_created emitted for an existing thread")
		}
	}
	last := events[len(events)-1]
	if last.Type != core.EventComplete {
		t.Fatalf("last event: got %s, want complete", last.Type)
	}
}

func TestPipelineNoMarkersOmitsOptionalEvents(t *testing.T) {
	threads := newFakeThreads()
	pipeline := newTestPipeline(threads, &fakeSearch{}, &fakeLLM{chunks: []string{"no markers here"}})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:  "q",
		UserID: "user-1",
	}))

	for _, ev := range events {
		if ev.Type == core.EventVocabulary || ev.Type == core.EventCitations {
			t.Fatalf("unexpected optional event %s for answer without markers", ev.Type)
		}
	}
}

func TestPipelineGenerationFailureLeavesItemIncomplete(t *testing.T) {
	threads := newFakeThreads()
	searchSvc := &fakeSearch{results: []core.SearchResult{{URL: "https://a.example", Title: "A"}}}
	llmClient := &fakeLLM{err: errors.New("LLM API error: model overloaded")}
	pipeline := newTestPipeline(threads, searchSvc, llmClient)

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:  "q",
		UserID: "user-1",
	}))

	last := events[len(events)-1]
	if last.Type != core.EventError {
		t.Fatalf("last event: got %s, want error", last.Type)
	}
	data, ok := last.Data.(core.ErrorData)
	if !ok {
		t.Fatalf("error event data has type %T", last.Data)
	}
	if data.Message != "model overloaded" {
		t.Fatalf("got message %q, want transport prefix stripped", data.Message)
	}
	if threads.completed {
		t.Fatal("thread item was completed despite generation failure")
	}
	if len(threads.attached) != 1 {
		t.Fatal("search results should persist before the generation stage")
	}
}

func TestPipelineSearchFailureKeepsDeliveredResults(t *testing.T) {
	threads := newFakeThreads()
	searchSvc := &fakeSearch{
		results: []core.SearchResult{{URL: "https://a.example", Title: "A"}},
		err:     errors.New("brave search API error: 429 Too Many Requests"),
	}
	pipeline := newTestPipeline(threads, searchSvc, &fakeLLM{})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:  "q",
		UserID: "user-1",
	}))

	sawResult := false
	for _, ev := range events {
		if ev.Type == core.EventSearchResult {
			sawResult = true
		}
	}
	if !sawResult {
		t.Fatal("results delivered before the failure should still stream")
	}
	if events[len(events)-1].Type != core.EventError {
		t.Fatalf("last event: got %s, want error", events[len(events)-1].Type)
	}
}

func TestPipelineRejectsInvalidRequest(t *testing.T) {
	pipeline := newTestPipeline(newFakeThreads(), &fakeSearch{}, &fakeLLM{})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{Query: ""}))

	if len(events) != 1 || events[0].Type != core.EventError {
		t.Fatalf("got %+v, want a single error event", events)
	}
}

func TestPipelineWhitespaceThreadIDCreatesNewThread(t *testing.T) {
	// A whitespace-only threadId passes validation as "no thread"; the
	// pipeline must treat it the same way instead of parsing it.
	threads := newFakeThreads()
	pipeline := newTestPipeline(threads, &fakeSearch{}, &fakeLLM{chunks: []string{"answer"}})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:    "q",
		ThreadID: " ",
		UserID:   "user-1",
	}))

	if events[0].Type != core.EventThreadCreated {
		t.Fatalf("first event: got %s, want thread_created", events[0].Type)
	}
	if events[len(events)-1].Type != core.EventComplete {
		t.Fatalf("last event: got %s, want complete", events[len(events)-1].Type)
	}
}

func TestPipelineStripsErrorPrefixCaseInsensitively(t *testing.T) {
	threads := newFakeThreads()
	llmClient := &fakeLLM{err: errors.New("error: model overloaded")}
	pipeline := newTestPipeline(threads, &fakeSearch{}, llmClient)

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:  "q",
		UserID: "user-1",
	}))

	last := events[len(events)-1]
	data, ok := last.Data.(core.ErrorData)
	if !ok {
		t.Fatalf("error event data has type %T", last.Data)
	}
	if data.Message != "model overloaded" {
		t.Fatalf("got message %q, want lowercase prefix stripped", data.Message)
	}
}

func TestPipelineUnknownThreadFails(t *testing.T) {
	pipeline := newTestPipeline(newFakeThreads(), &fakeSearch{}, &fakeLLM{})

	events := collectEvents(t, pipeline.Run(context.Background(), core.SearchRequest{
		Query:    "q",
		ThreadID: uuid.NewString(),
	}))

	if events[len(events)-1].Type != core.EventError {
		t.Fatalf("got %+v, want error for unknown thread", events)
	}
}
