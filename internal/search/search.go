package search

import (
	"context"
	"fmt"

	"github.com/verba-app/verba-backend/internal/core"
)

// Backend produces results for one engine. Results are delivered one at
// a time through onResult in backend order; a non-nil return from
// onResult aborts the stream and is returned unchanged. Results already
// delivered before an error stand.
type Backend interface {
	Search(ctx context.Context, query string, opts core.SearchOptions, onResult func(core.SearchResult) error) error
}

// Service dispatches a query to one of the registered backends by
// provider tag.
type Service interface {
	Search(ctx context.Context, query string, provider string, opts core.SearchOptions, onResult func(core.SearchResult) error) error
	AvailableProviders() []string
}

type httpError struct {
	Backend    string
	StatusCode int
	Status     string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s search API error: %d %s", e.Backend, e.StatusCode, e.Status)
}
