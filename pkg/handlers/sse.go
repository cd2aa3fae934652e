package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventStream writes server-sent events.
type EventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEventStream sets the event-stream headers and flushes them.
func NewEventStream(w http.ResponseWriter) *EventStream {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s := &EventStream{w: w}
	if f, ok := w.(http.Flusher); ok {
		s.flusher = f
	}
	s.flush()
	return s
}

// Send writes one event with a JSON payload.
func (s *EventStream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flush()
	return nil
}

// Comment writes a keep-alive comment line.
func (s *EventStream) Comment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *EventStream) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
