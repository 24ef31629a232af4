package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/requestdata"
	"github.com/verba-app/verba-backend/internal/services"
	"github.com/verba-app/verba-backend/internal/sse"
)

type SearchHandler struct {
	log      *logger.Logger
	pipeline services.SearchPipeline
}

func NewSearchHandler(log *logger.Logger, pipeline services.SearchPipeline) *SearchHandler {
	return &SearchHandler{
		log:      log.With("handler", "SearchHandler"),
		pipeline: pipeline,
	}
}

// Search runs one query submission and streams its events. Clients must
// opt in to streaming via the Accept header; a plain JSON request gets
// a rejection instead of a half-rendered event stream.
func (sh *SearchHandler) Search(c *gin.Context) {
	if !acceptsEventStream(c.GetHeader("Accept")) {
		RespondError(c, http.StatusNotAcceptable, "streaming_required",
			fmt.Errorf("streaming not requested; set Accept: text/event-stream"))
		return
	}

	var req core.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	// The authenticated subject always wins over a client-supplied
	// userId.
	if userID := requestdata.UserID(c.Request.Context()); userID != "" {
		req.UserID = userID
	}

	stream, err := sse.NewStream(c.Writer, sh.log)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", err)
		return
	}
	defer stream.Done()

	for ev := range sh.pipeline.Run(c.Request.Context(), req) {
		if err := stream.Send(ev); err != nil {
			sh.log.Debug("client disconnected mid-stream", "error", err)
			return
		}
	}
}

func acceptsEventStream(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaType == "text/event-stream" || mediaType == "*/*" {
			return true
		}
	}
	return false
}
