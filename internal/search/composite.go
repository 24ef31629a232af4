package search

import (
	"context"
	"fmt"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

const (
	ProviderBrave   = "brave"
	ProviderSearXNG = "searxng"
	ProviderExa     = "exa"
)

// compositeService selects among registered backends by provider tag.
// An unrecognized tag falls back to Brave with a warning; a recognized
// but unconfigured backend is an error, never a silent substitution.
type compositeService struct {
	log     *logger.Logger
	brave   Backend
	searxng Backend
	exa     Backend
}

func NewCompositeService(log *logger.Logger, brave, searxng, exa Backend) Service {
	return &compositeService{
		log:     log.With("service", "CompositeSearch"),
		brave:   brave,
		searxng: searxng,
		exa:     exa,
	}
}

func (cs *compositeService) Search(ctx context.Context, query string, provider string, opts core.SearchOptions, onResult func(core.SearchResult) error) error {
	if provider == "" {
		provider = ProviderBrave
	}

	switch provider {
	case ProviderBrave:
		return cs.brave.Search(ctx, query, opts, onResult)
	case ProviderSearXNG:
		return cs.searxng.Search(ctx, query, opts, onResult)
	case ProviderExa:
		if cs.exa == nil {
			cs.log.Warn("Exa backend requested but not configured")
			return fmt.Errorf("exa search service is not available")
		}
		return cs.exa.Search(ctx, query, opts, onResult)
	default:
		cs.log.Warn("Unknown search provider, falling back to Brave", "provider", provider)
		return cs.brave.Search(ctx, query, opts, onResult)
	}
}

func (cs *compositeService) AvailableProviders() []string {
	providers := []string{ProviderBrave, ProviderSearXNG}
	if cs.exa != nil {
		providers = append(providers, ProviderExa)
	}
	return providers
}
