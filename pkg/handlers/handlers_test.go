package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/perito-hub/pkg/handlers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondJSON(w, http.StatusCreated, map[string]int{"id": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("id = %d, want 7", body["id"])
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondError(w, testLogger(), http.StatusNotFound, errors.New("session not found"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "session not found" {
		t.Errorf("error = %q, want %q", body["error"], "session not found")
	}
}

func TestRespondFile(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondFile(w, "application/pdf", "relatorio.pdf", []byte("%PDF-1.7"))

	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="relatorio.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Content-Length"); got != "8" {
		t.Errorf("Content-Length = %q, want 8", got)
	}
}

func TestEventStream(t *testing.T) {
	w := httptest.NewRecorder()
	stream := handlers.NewEventStream(w)

	if err := stream.Send("photo_added", map[string]int{"photo_id": 1}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	stream.Comment("ping")

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "event: photo_added\ndata: {\"photo_id\":1}\n\n") {
		t.Errorf("body missing event frame: %q", body)
	}
	if !strings.Contains(body, ": ping\n\n") {
		t.Errorf("body missing keep-alive: %q", body)
	}
	if !w.Flushed {
		t.Error("stream was not flushed")
	}
}
