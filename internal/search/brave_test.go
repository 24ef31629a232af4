package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

func TestBraveBackendStreamsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			t.Errorf("missing subscription token header")
		}
		if got := r.URL.Query().Get("q"); got != "photosynthesis" {
			t.Errorf("unexpected query param: %q", got)
		}
		if got := r.URL.Query().Get("safesearch"); got != "moderate" {
			t.Errorf("unexpected safesearch param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"url":"https://a.example.com","title":"A","description":"first","favicon":"https://a.example.com/icon.png"},
			{"url":"https://b.example.com","title":"B","description":"second"}
		]}}`))
	}))
	defer srv.Close()

	t.Setenv("BRAVE_SEARCH_API_KEY", "test-key")
	t.Setenv("BRAVE_SEARCH_BASE_URL", srv.URL)

	backend, err := NewBraveBackend(logger.NewNop())
	if err != nil {
		t.Fatalf("NewBraveBackend: %v", err)
	}

	var got []core.SearchResult
	err = backend.Search(context.Background(), "photosynthesis", core.SearchOptions{Limit: 5}, func(r core.SearchResult) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Snippet != "first" || got[0].Favicon == "" {
		t.Fatalf("first result not mapped: %+v", got[0])
	}
	if got[1].Favicon != "" {
		t.Fatalf("favicon should stay empty when backend omits it")
	}
}

func TestBraveBackendHTTPErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("BRAVE_SEARCH_API_KEY", "test-key")
	t.Setenv("BRAVE_SEARCH_BASE_URL", srv.URL)

	backend, err := NewBraveBackend(logger.NewNop())
	if err != nil {
		t.Fatalf("NewBraveBackend: %v", err)
	}
	err = backend.Search(context.Background(), "q", core.SearchOptions{}, func(core.SearchResult) error { return nil })
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestBraveBackendRequiresKey(t *testing.T) {
	t.Setenv("BRAVE_SEARCH_API_KEY", "")
	if _, err := NewBraveBackend(logger.NewNop()); err == nil {
		t.Fatalf("expected error when BRAVE_SEARCH_API_KEY is missing")
	}
}
