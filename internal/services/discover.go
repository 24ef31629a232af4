package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/search"
)

var ErrUnknownCategory = errors.New("invalid category")

const (
	discoverFeedLimit  = 20
	discoverTopicLimit = 3
)

// DiscoverCategory names a curated slice of the web: topics to query
// for and a site allow-list to keep results on reputable sources.
type DiscoverCategory struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Topics []string `json:"-"`
	Sites  []string `json:"-"`
}

type DiscoverItem struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type DiscoverFeed struct {
	Blogs               []DiscoverItem     `json:"blogs"`
	Category            DiscoverCategory   `json:"category"`
	SearchEngine        string             `json:"searchEngine"`
	AvailableCategories []DiscoverCategory `json:"availableCategories"`
}

var discoverCategories = []DiscoverCategory{
	{
		ID:     "top",
		Name:   "Top",
		Topics: []string{"trending", "breaking news", "popular"},
		Sites:  []string{"techcrunch.com", "theverge.com", "reuters.com", "bbc.com"},
	},
	{
		ID:     "technology",
		Name:   "Technology",
		Topics: []string{"AI", "tech", "programming", "software", "gadgets"},
		Sites:  []string{"techcrunch.com", "wired.com", "theverge.com", "arstechnica.com", "engadget.com"},
	},
	{
		ID:     "science",
		Name:   "Science",
		Topics: []string{"research", "science", "discovery", "study", "innovation"},
		Sites:  []string{"nature.com", "sciencedaily.com", "newscientist.com", "scientificamerican.com"},
	},
	{
		ID:     "business",
		Name:   "Business",
		Topics: []string{"business", "finance", "markets", "economy", "startup"},
		Sites:  []string{"bloomberg.com", "reuters.com", "businessinsider.com", "forbes.com", "wsj.com"},
	},
	{
		ID:     "health",
		Name:   "Health",
		Topics: []string{"health", "medicine", "wellness", "medical", "healthcare"},
		Sites:  []string{"healthline.com", "webmd.com", "mayoclinic.org", "medicalnewstoday.com"},
	},
}

// DiscoverService assembles a browsable feed per category by fanning
// category topics out to the semantic search backend. Search failures
// degrade to a curated static set rather than an empty page.
type DiscoverService interface {
	Feed(ctx context.Context, categoryID, mode string) (*DiscoverFeed, error)
}

type discoverService struct {
	log       *logger.Logger
	searchSvc search.Service
}

func NewDiscoverService(log *logger.Logger, searchSvc search.Service) DiscoverService {
	return &discoverService{
		log:       log.With("service", "DiscoverService"),
		searchSvc: searchSvc,
	}
}

func categoryByID(id string) *DiscoverCategory {
	for i := range discoverCategories {
		if discoverCategories[i].ID == id {
			return &discoverCategories[i]
		}
	}
	return nil
}

func availableCategories() []DiscoverCategory {
	out := make([]DiscoverCategory, len(discoverCategories))
	for i, cat := range discoverCategories {
		out[i] = DiscoverCategory{ID: cat.ID, Name: cat.Name}
	}
	return out
}

// Feed builds the category feed. Mode "preview" runs a single cheap
// query; anything else fans out one query per topic (capped) and
// merges the results.
func (ds *discoverService) Feed(ctx context.Context, categoryID, mode string) (*DiscoverFeed, error) {
	if categoryID == "" {
		categoryID = "top"
	}
	category := categoryByID(categoryID)
	if category == nil {
		return nil, ErrUnknownCategory
	}

	var items []DiscoverItem
	if mode == "preview" {
		items = ds.preview(ctx, category)
	} else {
		items = ds.fanOut(ctx, category)
	}
	if len(items) == 0 {
		ds.log.Debug("discover search empty, serving curated fallback", "category", category.ID)
		items = curatedItems(category.ID)
	}

	return &DiscoverFeed{
		Blogs:               items,
		Category:            DiscoverCategory{ID: category.ID, Name: category.Name},
		SearchEngine:        search.ProviderExa,
		AvailableCategories: availableCategories(),
	}, nil
}

func (ds *discoverService) fanOut(ctx context.Context, category *DiscoverCategory) []DiscoverItem {
	topics := category.Topics
	if len(topics) > discoverTopicLimit {
		topics = topics[:discoverTopicLimit]
	}
	sites := category.Sites
	if len(sites) > 3 {
		sites = sites[:3]
	}

	var (
		mu    sync.Mutex
		items []DiscoverItem
	)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		group.Go(func() error {
			query := fmt.Sprintf("Find high-quality articles about %s in %s", topic, strings.ToLower(category.Name))
			opts := core.SearchOptions{
				Limit: 4,
				Filters: map[string]string{
					"searchType": category.ID,
					"sites":      strings.Join(sites, ","),
				},
			}
			err := ds.searchSvc.Search(groupCtx, query, search.ProviderExa, opts, func(result core.SearchResult) error {
				mu.Lock()
				items = append(items, toDiscoverItem(result))
				mu.Unlock()
				return nil
			})
			if err != nil {
				// One topic failing must not empty the feed.
				ds.log.Debug("discover topic search failed", "topic", topic, "error", err)
			}
			return nil
		})
	}
	_ = group.Wait()

	items = dedupeByURL(items)
	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	if len(items) > discoverFeedLimit {
		items = items[:discoverFeedLimit]
	}
	return items
}

func (ds *discoverService) preview(ctx context.Context, category *DiscoverCategory) []DiscoverItem {
	topic := category.Topics[rand.Intn(len(category.Topics))]
	var items []DiscoverItem
	err := ds.searchSvc.Search(ctx, topic, search.ProviderExa, core.SearchOptions{Limit: 5}, func(result core.SearchResult) error {
		items = append(items, toDiscoverItem(result))
		return nil
	})
	if err != nil {
		ds.log.Debug("discover preview search failed", "topic", topic, "error", err)
	}
	return items
}

func toDiscoverItem(result core.SearchResult) DiscoverItem {
	return DiscoverItem{
		Title:     result.Title,
		Content:   result.Snippet,
		URL:       result.URL,
		Thumbnail: thumbnailFor(result.URL),
	}
}

func thumbnailFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + parsed.Hostname() + "&sz=64"
}

func dedupeByURL(items []DiscoverItem) []DiscoverItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		out = append(out, item)
	}
	return out
}
