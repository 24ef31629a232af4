package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

type braveResponse struct {
	Web *struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Favicon     string `json:"favicon,omitempty"`
		} `json:"results"`
	} `json:"web,omitempty"`
}

type braveBackend struct {
	log        *logger.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewBraveBackend(log *logger.Logger) (Backend, error) {
	apiKey := os.Getenv("BRAVE_SEARCH_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing BRAVE_SEARCH_API_KEY")
	}
	baseURL := os.Getenv("BRAVE_SEARCH_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1/web/search"
	}
	return &braveBackend{
		log:        log.With("backend", "BraveSearch"),
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (b *braveBackend) Search(ctx context.Context, query string, opts core.SearchOptions, onResult func(core.SearchResult) error) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(limit))
	params.Set("safesearch", "moderate")
	// Past week keeps results current for conversational queries.
	params.Set("freshness", "pw")
	for k, v := range opts.Filters {
		params.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{Backend: "Brave", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var data braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("brave search: decode response: %w", err)
	}
	if data.Web == nil {
		return nil
	}

	for _, result := range data.Web.Results {
		if err := onResult(core.SearchResult{
			URL:     result.URL,
			Title:   result.Title,
			Snippet: result.Description,
			Favicon: result.Favicon,
		}); err != nil {
			return err
		}
	}
	return nil
}
