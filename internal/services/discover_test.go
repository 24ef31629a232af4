package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/search"
)

type discoverCall struct {
	query    string
	provider string
	opts     core.SearchOptions
}

type fakeDiscoverSearch struct {
	mu      sync.Mutex
	calls   []discoverCall
	results []core.SearchResult
	err     error
}

func (f *fakeDiscoverSearch) Search(_ context.Context, query string, provider string, opts core.SearchOptions, onResult func(core.SearchResult) error) error {
	f.mu.Lock()
	f.calls = append(f.calls, discoverCall{query: query, provider: provider, opts: opts})
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, r := range f.results {
		if err := onResult(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDiscoverSearch) AvailableProviders() []string {
	return []string{search.ProviderExa}
}

func TestDiscoverFeedFansOutPerTopic(t *testing.T) {
	searchSvc := &fakeDiscoverSearch{results: []core.SearchResult{
		{URL: "https://wired.com/a", Title: "A", Snippet: "alpha"},
	}}
	svc := NewDiscoverService(logger.NewNop(), searchSvc)

	feed, err := svc.Feed(context.Background(), "technology", "normal")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	if len(searchSvc.calls) != discoverTopicLimit {
		t.Fatalf("got %d searches, want %d", len(searchSvc.calls), discoverTopicLimit)
	}
	for _, call := range searchSvc.calls {
		if call.provider != search.ProviderExa {
			t.Fatalf("provider: got %q, want exa", call.provider)
		}
		if call.opts.Filters["searchType"] != "technology" {
			t.Fatalf("searchType filter: got %q", call.opts.Filters["searchType"])
		}
		if !strings.Contains(call.opts.Filters["sites"], "techcrunch.com") {
			t.Fatalf("sites filter: got %q", call.opts.Filters["sites"])
		}
		if !strings.Contains(call.query, "technology") {
			t.Fatalf("query: got %q", call.query)
		}
	}

	// Three topics returning the same URL collapse to one item.
	if len(feed.Blogs) != 1 {
		t.Fatalf("got %d items, want 1 after dedupe", len(feed.Blogs))
	}
	if feed.Blogs[0].Thumbnail != "https://www.google.com/s2/favicons?domain=wired.com&sz=64" {
		t.Fatalf("thumbnail: got %q", feed.Blogs[0].Thumbnail)
	}
	if feed.SearchEngine != search.ProviderExa {
		t.Fatalf("searchEngine: got %q", feed.SearchEngine)
	}
	if len(feed.AvailableCategories) != len(discoverCategories) {
		t.Fatalf("got %d categories, want %d", len(feed.AvailableCategories), len(discoverCategories))
	}
}

func TestDiscoverFeedUnknownCategory(t *testing.T) {
	svc := NewDiscoverService(logger.NewNop(), &fakeDiscoverSearch{})
	if _, err := svc.Feed(context.Background(), "sports", "normal"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("got %v, want ErrUnknownCategory", err)
	}
}

func TestDiscoverFeedDefaultsToTop(t *testing.T) {
	svc := NewDiscoverService(logger.NewNop(), &fakeDiscoverSearch{})
	feed, err := svc.Feed(context.Background(), "", "normal")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed.Category.ID != "top" {
		t.Fatalf("category: got %q, want top", feed.Category.ID)
	}
}

func TestDiscoverFeedFallsBackWhenSearchFails(t *testing.T) {
	searchSvc := &fakeDiscoverSearch{err: errors.New("exa search service is not available")}
	svc := NewDiscoverService(logger.NewNop(), searchSvc)

	feed, err := svc.Feed(context.Background(), "science", "normal")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed.Blogs) == 0 {
		t.Fatal("a failing backend must fall back to curated items")
	}
	for _, item := range feed.Blogs {
		if item.URL == "" || item.Title == "" {
			t.Fatalf("incomplete curated item: %+v", item)
		}
	}
}

func TestDiscoverPreviewRunsSingleSearch(t *testing.T) {
	searchSvc := &fakeDiscoverSearch{results: []core.SearchResult{
		{URL: "https://nature.com/x", Title: "X", Snippet: "s"},
	}}
	svc := NewDiscoverService(logger.NewNop(), searchSvc)

	feed, err := svc.Feed(context.Background(), "science", "preview")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(searchSvc.calls) != 1 {
		t.Fatalf("got %d searches, want 1 in preview mode", len(searchSvc.calls))
	}
	if searchSvc.calls[0].opts.Limit != 5 {
		t.Fatalf("limit: got %d, want 5", searchSvc.calls[0].opts.Limit)
	}
	if len(feed.Blogs) != 1 {
		t.Fatalf("got %d items, want 1", len(feed.Blogs))
	}
}
