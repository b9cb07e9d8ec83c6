package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sseWriter writes Server-Sent Events to a gin response
type sseWriter struct {
	c       *gin.Context
	flusher http.Flusher
}

// newSSEWriter sets the event-stream headers. It returns false when the
// response writer cannot flush.
func newSSEWriter(c *gin.Context) (*sseWriter, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return nil, false
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	return &sseWriter{c: c, flusher: flusher}, true
}

// Send writes one event and flushes it. An error means the client is gone.
func (w *sseWriter) Send(event string, data any) error {
	if err := w.c.Request.Context().Err(); err != nil {
		return err
	}

	payload := []byte("{}")
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			_, werr := fmt.Fprint(w.c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			w.flusher.Flush()
			if werr != nil {
				return werr
			}
			return err
		}
	}

	if _, err := fmt.Fprintf(w.c.Writer, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
