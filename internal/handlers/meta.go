package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/llm"
	"github.com/verba-app/verba-backend/internal/search"
)

// MetaHandler serves the capability surface clients use to populate
// model and provider pickers.
type MetaHandler struct {
	searchSvc search.Service
}

func NewMetaHandler(searchSvc search.Service) *MetaHandler {
	return &MetaHandler{searchSvc: searchSvc}
}

func (mh *MetaHandler) Models(c *gin.Context) {
	RespondOK(c, gin.H{
		"models":  llm.AvailableModels(),
		"default": core.DefaultModel,
	})
}

func (mh *MetaHandler) Providers(c *gin.Context) {
	RespondOK(c, gin.H{
		"providers": mh.searchSvc.AvailableProviders(),
		"default":   core.DefaultSearchProvider,
	})
}
