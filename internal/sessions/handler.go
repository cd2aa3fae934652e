package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/handlers"
	"github.com/JaimeStill/perito-hub/pkg/routes"
	"github.com/google/uuid"
)

type Handler struct {
	sys      System
	logger   *slog.Logger
	settings Settings
}

func NewHandler(sys System, logger *slog.Logger, settings Settings) *Handler {
	return &Handler{
		sys:      sys,
		logger:   logger.With("handler", "sessions"),
		settings: settings.withDefaults(),
	}
}

// FieldUpdate sets one named field to value.
type FieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type moveResult struct {
	Moved  bool            `json:"moved"`
	Photos []photos.Record `json:"photos"`
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/sessions",
		Tags:        []string{"Sessions"},
		Description: "Photographic report editing sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Open, OpenAPI: Spec.Open},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Close, OpenAPI: Spec.Close},
			{Method: "GET", Pattern: "/{id}/events", Handler: h.Events, OpenAPI: Spec.Events},
			{Method: "PATCH", Pattern: "/{id}/metadata", Handler: h.UpdateMetadata, OpenAPI: Spec.UpdateMetadata},
			{Method: "PATCH", Pattern: "/{id}/options", Handler: h.UpdateOption, OpenAPI: Spec.UpdateOption},
			{Method: "POST", Pattern: "/{id}/save", Handler: h.Save, OpenAPI: Spec.Save},
			{Method: "POST", Pattern: "/{id}/export", Handler: h.Export, OpenAPI: Spec.Export},
		},
		Children: []routes.Group{
			{
				Prefix:      "/{id}/photos",
				Tags:        []string{"Sessions"},
				Description: "Photos of the report being edited",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: h.AddPhoto, OpenAPI: Spec.AddPhoto},
					{Method: "POST", Pattern: "/upload", Handler: h.Upload, OpenAPI: Spec.Upload},
					{Method: "PATCH", Pattern: "/{photo}", Handler: h.UpdatePhoto, OpenAPI: Spec.UpdatePhoto},
					{Method: "DELETE", Pattern: "/{photo}", Handler: h.DeletePhoto, OpenAPI: Spec.DeletePhoto},
					{Method: "POST", Pattern: "/{photo}/move", Handler: h.MovePhoto, OpenAPI: Spec.MovePhoto},
					{Method: "GET", Pattern: "/{photo}/image", Handler: h.Image, OpenAPI: Spec.Image},
				},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.List())
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var cmd OpenCommand
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	s, err := h.sys.Open(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, s.Info(true))
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Info(true))
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Close(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Events streams editor notifications as server-sent events. The first
// event carries the session state; the stream ends when the session closes.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	stream, err := s.Subscribe()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer s.Unsubscribe(stream)

	es := handlers.NewEventStream(w)
	if err := es.Send("session", s.Info(true)); err != nil {
		return
	}

	keepAlive := time.NewTicker(h.settings.KeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := es.Comment("keep-alive"); err != nil {
				return
			}
		case ev, ok := <-stream.Events():
			if !ok {
				es.Send("closed", map[string]string{"session_id": s.ID().String()})
				return
			}
			if err := es.Send(string(ev.Type), ev); err != nil {
				h.logger.Debug("event stream write failed", "error", err)
				return
			}
		}
	}
}

func (h *Handler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var draft photos.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := s.AddPhoto(draft)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	uploads, err := ParseUploads(w, r, h.settings.MaxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	added, err := s.Upload(r.Context(), uploads)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, added)
}

func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.photo(w, r)
	if !ok {
		return
	}

	var req FieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	updated, err := s.Editor().UpdatePhoto(id, photos.Field(req.Field), req.Value)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if !updated {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrPhotoNotFound)
		return
	}

	rec, _ := s.Editor().Photo(id)
	handlers.RespondJSON(w, http.StatusOK, rec)
}

// DeletePhoto is idempotent: unknown photos also answer 204.
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.photo(w, r)
	if !ok {
		return
	}

	if _, err := s.DeletePhoto(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MovePhoto(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.photo(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	dir, err := photos.ParseDirection(req.Direction)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if _, found := s.Editor().Photo(id); !found {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrPhotoNotFound)
		return
	}

	moved, err := s.Editor().Reorder(id, dir)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, moveResult{Moved: moved, Photos: s.Editor().Photos()})
}

func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.photo(w, r)
	if !ok {
		return
	}

	data, contentType, external, err := s.Image(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if external != "" {
		http.Redirect(w, r, external, http.StatusFound)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	handlers.RespondFile(w, contentType, "", data)
}

func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := s.UpdateMetadata(r.Context(), reports.MetadataField(req.Field), req.Value); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s.Editor().Metadata())
}

// UpdateOption answers 400 for a rejected value; the prior option stays in
// effect and subscribers receive option_invalid.
func (h *Handler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := s.Editor().UpdateOption(reports.OptionField(req.Field), req.Value); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s.Editor().Options())
}

// Save persists the report. With ?async=true it answers 202 at once and
// the outcome arrives on the event stream.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	task := s.Save(r.Context())
	if async(r) {
		handlers.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "saving"})
		return
	}

	ack, err := task.Wait(r.Context())
	if err != nil {
		respondTaskError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ack)
}

// Export renders the report. With ?async=true it answers 202 at once and
// the artifact arrives on the event stream.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	task := s.Export(r.Context())
	if async(r) {
		handlers.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "exporting"})
		return
	}

	artifact, err := task.Wait(r.Context())
	if err != nil {
		respondTaskError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, false
	}

	s, err := h.sys.Get(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return s, true
}

func (h *Handler) photo(w http.ResponseWriter, r *http.Request) (*Session, int, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, 0, false
	}

	id, err := strconv.Atoi(r.PathValue("photo"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, 0, false
	}
	return s, id, true
}

func async(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("async"))
	return v
}

// respondTaskError reports a client disconnect without treating it as a
// server fault; the task keeps running and its outcome is still broadcast.
func respondTaskError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Debug("client stopped waiting", "error", err)
		return
	}
	handlers.RespondError(w, logger, MapHTTPStatus(err), err)
}
