package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/services"
)

type DiscoverHandler struct {
	discover services.DiscoverService
}

func NewDiscoverHandler(discover services.DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{discover: discover}
}

func (dh *DiscoverHandler) Feed(c *gin.Context) {
	categoryID := c.DefaultQuery("category", "top")
	mode := c.DefaultQuery("mode", "normal")

	feed, err := dh.discover.Feed(c.Request.Context(), categoryID, mode)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			RespondError(c, http.StatusBadRequest, "invalid_category", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "discover_failed", err)
		return
	}
	RespondOK(c, feed)
}
