package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

// DoneSentinel is the final frame of every stream, matching the
// convention EventSource clients poll for to stop reconnecting.
const DoneSentinel = "[DONE]"

// Stream writes server-sent event frames for one request. Every frame
// is a single `data:` line carrying JSON; the stream always ends with
// the [DONE] sentinel regardless of how the pipeline finished.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	log     *logger.Logger
}

// NewStream prepares the response for server-sent events. It fails when
// the underlying writer cannot flush, which only happens behind
// buffering middleware that has no business in front of a stream.
func NewStream(w http.ResponseWriter, log *logger.Logger) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Stream{w: w, flusher: flusher, log: log}, nil
}

// Send writes one typed event frame and flushes it immediately.
func (s *Stream) Send(ev core.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.writeData(payload)
}

// SendJSON writes an arbitrary JSON-marshalable payload as one frame.
func (s *Stream) SendJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return s.writeData(payload)
}

// Done terminates the stream with the [DONE] sentinel.
func (s *Stream) Done() {
	if err := s.writeData([]byte(DoneSentinel)); err != nil {
		s.log.Debug("failed to write stream sentinel", "error", err)
	}
}

func (s *Stream) writeData(payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
