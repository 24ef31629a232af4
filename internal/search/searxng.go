package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content,omitempty"`
		ImgSrc  string `json:"img_src,omitempty"`
	} `json:"results"`
}

type searxngBackend struct {
	log        *logger.Logger
	baseURL    string
	pages      int
	httpClient *http.Client
}

func NewSearXNGBackend(log *logger.Logger) Backend {
	baseURL := os.Getenv("SEARXNG_URL")
	if baseURL == "" {
		baseURL = "http://localhost:32768"
	}
	return &searxngBackend{
		log:        log.With("backend", "SearXNGSearch"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		pages:      2,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search fans out over result pages concurrently, then delivers them in
// page order so the consumer still sees one ordered sequence.
func (s *searxngBackend) Search(ctx context.Context, query string, opts core.SearchOptions, onResult func(core.SearchResult) error) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	categories := "general"
	switch opts.Filters["searchType"] {
	case "news":
		categories = "news"
	case "academic":
		categories = "science"
	case "social":
		categories = "social media"
	case "video":
		categories = "videos"
	}

	pages := make([][]core.SearchResult, s.pages)
	g, gctx := errgroup.WithContext(ctx)
	for page := 1; page <= s.pages; page++ {
		g.Go(func() error {
			results, err := s.fetchPage(gctx, query, categories, page)
			if err != nil {
				return err
			}
			pages[page-1] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	delivered := 0
	for _, pageResults := range pages {
		for _, result := range pageResults {
			if delivered >= limit {
				return nil
			}
			if err := onResult(result); err != nil {
				return err
			}
			delivered++
		}
	}
	return nil
}

func (s *searxngBackend) fetchPage(ctx context.Context, query, categories string, page int) ([]core.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("categories", categories)
	params.Set("pageno", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{Backend: "SearXNG", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var data searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("searxng search: decode response: %w", err)
	}

	results := make([]core.SearchResult, 0, len(data.Results))
	for _, r := range data.Results {
		results = append(results, core.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Content,
			Favicon: r.ImgSrc,
		})
	}
	return results, nil
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
