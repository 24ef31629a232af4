package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/services"
)

type fakeDiscover struct {
	lastCategory string
	lastMode     string
}

func (f *fakeDiscover) Feed(_ context.Context, categoryID, mode string) (*services.DiscoverFeed, error) {
	f.lastCategory = categoryID
	f.lastMode = mode
	if categoryID == "sports" {
		return nil, services.ErrUnknownCategory
	}
	return &services.DiscoverFeed{
		Category:     services.DiscoverCategory{ID: categoryID, Name: "Top"},
		SearchEngine: "exa",
	}, nil
}

func newDiscoverRouter(svc services.DiscoverService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/discover", NewDiscoverHandler(svc).Feed)
	return router
}

func TestDiscoverDefaultsCategoryAndMode(t *testing.T) {
	svc := &fakeDiscover{}
	router := newDiscoverRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/discover", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if svc.lastCategory != "top" || svc.lastMode != "normal" {
		t.Fatalf("defaults: got category=%q mode=%q", svc.lastCategory, svc.lastMode)
	}
	if !strings.Contains(rec.Body.String(), `"searchEngine":"exa"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDiscoverUnknownCategoryIsBadRequest(t *testing.T) {
	router := newDiscoverRouter(&fakeDiscover{})

	req := httptest.NewRequest(http.MethodGet, "/api/discover?category=sports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}
