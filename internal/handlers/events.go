package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/requestdata"
	"github.com/verba-app/verba-backend/internal/services"
	"github.com/verba-app/verba-backend/internal/sse"
)

// EventsHandler streams cross-session thread activity to a user, so a
// second tab can refresh its thread list when a search completes
// elsewhere.
type EventsHandler struct {
	log      *logger.Logger
	notifier services.Notifier
}

func NewEventsHandler(log *logger.Logger, notifier services.Notifier) *EventsHandler {
	return &EventsHandler{
		log:      log.With("handler", "EventsHandler"),
		notifier: notifier,
	}
}

func (eh *EventsHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	stream, err := sse.NewStream(c.Writer, eh.log)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", err)
		return
	}

	ctx := c.Request.Context()
	activities, cancel := eh.notifier.Subscribe(ctx, userID)
	defer cancel()

	for {
		select {
		case activity, ok := <-activities:
			if !ok {
				return
			}
			if err := stream.SendJSON(gin.H{"type": "thread_updated", "data": activity}); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
