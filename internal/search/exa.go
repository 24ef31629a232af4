package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

type exaRequest struct {
	Query              string   `json:"query"`
	NumResults         int      `json:"numResults,omitempty"`
	IncludeDomains     []string `json:"includeDomains,omitempty"`
	StartPublishedDate string   `json:"startPublishedDate,omitempty"`
	UseAutoprompt      bool     `json:"useAutoprompt"`
	Type               string   `json:"type,omitempty"`
	Category           string   `json:"category,omitempty"`
}

type exaResponse struct {
	Results []struct {
		URL           string  `json:"url"`
		Title         string  `json:"title"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"publishedDate,omitempty"`
		Author        string  `json:"author,omitempty"`
		Text          string  `json:"text,omitempty"`
	} `json:"results"`
}

type exaBackend struct {
	log        *logger.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewExaBackend returns (nil, nil) when no EXA_API_KEY is configured so
// the composite can register the provider as unavailable rather than
// fail startup.
func NewExaBackend(log *logger.Logger) (Backend, error) {
	apiKey := os.Getenv("EXA_API_KEY")
	if apiKey == "" {
		return nil, nil
	}
	baseURL := os.Getenv("EXA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.exa.ai/search"
	}
	return &exaBackend{
		log:        log.With("backend", "ExaSearch"),
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (e *exaBackend) Search(ctx context.Context, query string, opts core.SearchOptions, onResult func(core.SearchResult) error) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	reqBody := exaRequest{
		Query:         query,
		NumResults:    limit,
		UseAutoprompt: true,
		// Neural search gives better semantic matches than keyword.
		Type: "neural",
	}

	switch opts.Filters["searchType"] {
	case "news":
		reqBody.Category = "news"
		reqBody.StartPublishedDate = time.Now().AddDate(0, 0, -7).UTC().Format(time.RFC3339)
	case "academic":
		reqBody.Category = "research paper"
		reqBody.IncludeDomains = []string{"arxiv.org", "scholar.google.com", "pubmed.ncbi.nlm.nih.gov"}
	case "github":
		reqBody.Category = "github"
		reqBody.IncludeDomains = []string{"github.com"}
	}
	if sites := opts.Filters["sites"]; sites != "" {
		reqBody.IncludeDomains = splitAndTrim(sites)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("exa search failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("exa API authentication failed, check your API key")
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("exa API rate limit exceeded, please try again later")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &httpError{Backend: "Exa", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var data exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("exa search: decode response: %w", err)
	}

	for _, result := range data.Results {
		snippet := result.Text
		if snippet == "" {
			snippet = fmt.Sprintf("Score: %.2f", result.Score)
			if result.Author != "" {
				snippet += " | Author: " + result.Author
			}
		}
		if err := onResult(core.SearchResult{
			URL:     result.URL,
			Title:   result.Title,
			Snippet: snippet,
			Favicon: faviconFor(result.URL),
		}); err != nil {
			return err
		}
	}
	return nil
}

func faviconFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + parsed.Hostname()
}
