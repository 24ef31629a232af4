package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verba-app/verba-backend/internal/requestdata"
	"github.com/verba-app/verba-backend/internal/services"
)

type ThreadHandler struct {
	threads services.ThreadService
}

func NewThreadHandler(threads services.ThreadService) *ThreadHandler {
	return &ThreadHandler{threads: threads}
}

func (th *ThreadHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	threads, err := th.threads.ListThreads(c.Request.Context(), userID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"threads": threads})
}

func (th *ThreadHandler) Get(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("thread id is not a valid uuid"))
		return
	}

	thread, items, err := th.threads.GetThread(c.Request.Context(), userID, threadID)
	if err != nil {
		respondThreadError(c, err)
		return
	}
	RespondOK(c, gin.H{"thread": thread, "items": items})
}

func (th *ThreadHandler) Delete(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("thread id is not a valid uuid"))
		return
	}

	if err := th.threads.DeleteThread(c.Request.Context(), userID, threadID); err != nil {
		respondThreadError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// respondThreadError distinguishes a thread that does not exist from
// one that belongs to someone else.
func respondThreadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrThreadNotFound):
		RespondError(c, http.StatusNotFound, "thread_not_found", err)
	case errors.Is(err, services.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	default:
		RespondError(c, http.StatusInternalServerError, "thread_error", err)
	}
}
