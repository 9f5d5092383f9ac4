// Package sse writes Server-Sent Events for the streaming chat endpoints.
//
// The wire contract with the SPA is one JSON object per event:
// `data: {"text": "..."}` for each content chunk, `data: {"done": true}`
// exactly once on success, and `data: {"error": "..."}` before closing a
// failed stream. Comment lines keep idle proxies from cutting the
// connection.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Writer emits SSE frames over an http.ResponseWriter. The response must
// support flushing; NewWriter rejects writers that do not.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares the response for SSE and returns a frame writer. The
// headers are written immediately.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

type textFrame struct {
	Text string `json:"text"`
}

type doneFrame struct {
	Done bool `json:"done"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// WriteText sends one content chunk.
func (s *Writer) WriteText(text string) error {
	return s.writeFrame(textFrame{Text: text})
}

// WriteDone sends the terminal success frame.
func (s *Writer) WriteDone() error {
	return s.writeFrame(doneFrame{Done: true})
}

// WriteError sends the terminal failure frame. The message is the only
// detail the client sees; upstream internals never pass through here.
func (s *Writer) WriteError(message string) error {
	return s.writeFrame(errorFrame{Error: message})
}

// WriteKeepAlive writes an SSE comment line. Clients ignore it; proxies see
// traffic on the connection.
func (s *Writer) WriteKeepAlive() error {
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive: %w", err)
	}
	s.flusher.Flush()
	return nil
}

func (s *Writer) writeFrame(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sse frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write sse frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}
