// Package sessions hosts report editors for HTTP clients. Each session owns
// one editor, the photos uploaded into it and the event streams watching it.
package sessions

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/google/uuid"
)

// Archive is the persistence side a session needs: saving snapshots,
// loading saved reports and checking which blobs saved reports still use.
type Archive interface {
	reports.Persister
	Referenced(ctx context.Context, urls []string) (map[string]bool, error)
}

// Info describes a session for clients.
type Info struct {
	ID         uuid.UUID        `json:"id"`
	ReportID   uuid.UUID        `json:"report_id"`
	State      reports.State    `json:"state"`
	Dirty      bool             `json:"dirty"`
	InFlight   int              `json:"in_flight"`
	PhotoCount int              `json:"photo_count"`
	Metadata   reports.Metadata `json:"metadata"`
	Options    reports.Options  `json:"options"`
	Photos     []photos.Record  `json:"photos,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	LastActive time.Time        `json:"last_active"`
}

// Session wraps an editor. The editor calls broadcast while holding its own
// lock, so session locks are never held across editor calls.
type Session struct {
	id      uuid.UUID
	editor  *reports.Editor
	storage storage.System
	archive Archive
	laudos  Laudos
	logger  *slog.Logger
	clock   func() time.Time
	created time.Time

	mu         sync.Mutex
	lastActive time.Time
	owned      map[string]bool
	pending    []string
	busy       int
	closed     bool

	subMu       sync.Mutex
	subscribers map[*reports.Stream]struct{}
	buffer      int
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Editor() *reports.Editor { return s.editor }

// Info reports the session state; photos are included when withPhotos is set.
func (s *Session) Info(withPhotos bool) Info {
	snap := s.editor.Snapshot()

	s.mu.Lock()
	last := s.lastActive
	s.mu.Unlock()

	info := Info{
		ID:         s.id,
		ReportID:   snap.ReportID,
		State:      s.editor.State(),
		Dirty:      s.editor.Dirty(),
		InFlight:   s.editor.InFlight(),
		PhotoCount: len(snap.Photos),
		Metadata:   snap.Metadata,
		Options:    snap.Options,
		CreatedAt:  s.created,
		LastActive: last,
	}
	if withPhotos {
		info.Photos = snap.Photos
	}
	return info
}

// Subscribe returns a stream of editor events. The stream closes when the
// session does.
func (s *Session) Subscribe() (*reports.Stream, error) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subscribers == nil {
		return nil, reports.ErrClosed
	}
	stream := reports.NewStream(s.buffer)
	s.subscribers[stream] = struct{}{}
	return stream, nil
}

func (s *Session) Unsubscribe(stream *reports.Stream) {
	s.subMu.Lock()
	if s.subscribers != nil {
		delete(s.subscribers, stream)
	}
	s.subMu.Unlock()
	stream.Close()
}

func (s *Session) broadcast(e reports.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for stream := range s.subscribers {
		stream.Notify(e)
	}
}

// AddPhoto appends a photo referencing an external or already stored image.
func (s *Session) AddPhoto(d photos.Draft) (photos.Record, error) {
	s.touch()
	return s.editor.AddPhoto(d)
}

// UpdateMetadata replaces one metadata field. A related_report_ref must
// name a laudo of the report's case; clearing it is always allowed.
func (s *Session) UpdateMetadata(ctx context.Context, field reports.MetadataField, value string) error {
	s.touch()
	if field == reports.MetadataRelatedReportRef {
		ref, _, err := resolveLaudo(ctx, s.laudos, value, s.editor.Metadata().ProcessRef)
		if err != nil {
			return err
		}
		value = ""
		if ref != nil {
			value = *ref
		}
	}
	return s.editor.UpdateMetadata(field, value)
}

// DeletePhoto removes a photo and releases its blob when this session
// uploaded it and no saved report uses it.
func (s *Session) DeletePhoto(ctx context.Context, id int) (bool, error) {
	s.touch()
	rec, ok, err := s.editor.DeletePhoto(id)
	if err != nil || !ok {
		return ok, err
	}
	s.release(ctx, rec.URL)
	return true, nil
}

// Save persists the current report. Blob releases wait for it to finish.
func (s *Session) Save(ctx context.Context) *reports.Task[reports.Ack] {
	s.touch()
	s.begin()
	task := s.editor.Save(ctx)
	go s.endAfter(task.Done())
	return task
}

// Export requests a PDF of the current report. Blob releases wait for it to
// finish so the gateway never reads a deleted photo.
func (s *Session) Export(ctx context.Context) *reports.Task[reports.Artifact] {
	s.touch()
	s.begin()
	task := s.editor.RequestExport(ctx)
	go s.endAfter(task.Done())
	return task
}

// Image returns the bytes of a stored photo. External photos return their
// URL for redirection instead.
func (s *Session) Image(ctx context.Context, id int) (data []byte, contentType, external string, err error) {
	s.touch()
	rec, ok := s.editor.Photo(id)
	if !ok {
		return nil, "", "", ErrPhotoNotFound
	}

	key, ok := storage.KeyFromURL(rec.URL)
	if !ok {
		return nil, "", rec.URL, nil
	}

	data, err = s.storage.Retrieve(ctx, key)
	if err != nil {
		return nil, "", "", err
	}
	return data, http.DetectContentType(data), "", nil
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.clock()
	s.mu.Unlock()
}

// own records an uploaded blob. An upload that lands after close has
// already taken its snapshot of owned blobs releases the blob itself.
func (s *Session) own(ctx context.Context, url string) {
	s.mu.Lock()
	s.owned[url] = true
	closed := s.closed
	s.mu.Unlock()

	if closed {
		s.release(ctx, url)
	}
}

func (s *Session) begin() {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
}

func (s *Session) endAfter(done <-chan struct{}) {
	<-done

	s.mu.Lock()
	s.busy--
	var flush []string
	if s.busy == 0 {
		flush = s.pending
		s.pending = nil
	}
	s.mu.Unlock()

	if len(flush) > 0 {
		s.releaseNow(context.Background(), flush)
	}
}

// idle reports whether the session has been inactive since before cutoff
// and has no save or export running.
func (s *Session) idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy == 0 && s.lastActive.Before(cutoff)
}

// release queues owned blobs for deletion, deferring while a save or export
// may still read them.
func (s *Session) release(ctx context.Context, urls ...string) {
	s.mu.Lock()
	var candidates []string
	for _, u := range urls {
		if s.owned[u] {
			candidates = append(candidates, u)
		}
	}
	if s.busy > 0 {
		s.pending = append(s.pending, candidates...)
		candidates = nil
	}
	s.mu.Unlock()

	if len(candidates) > 0 {
		s.releaseNow(ctx, candidates)
	}
}

func (s *Session) releaseNow(ctx context.Context, urls []string) {
	urls = s.unused(urls)
	if len(urls) == 0 {
		return
	}

	referenced, err := s.archive.Referenced(ctx, urls)
	if err != nil {
		s.logger.Warn("blob reference check failed", "error", err)
		return
	}

	for _, u := range urls {
		if referenced[u] {
			s.forget(u)
			continue
		}
		key, ok := storage.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
			continue
		}
		s.forget(u)
	}
}

// unused drops urls the open editor still shows.
func (s *Session) unused(urls []string) []string {
	if s.editor.Closed() {
		return urls
	}
	inUse := make(map[string]bool)
	for _, rec := range s.editor.Photos() {
		inUse[rec.URL] = true
	}
	out := urls[:0:0]
	for _, u := range urls {
		if !inUse[u] {
			out = append(out, u)
		}
	}
	return out
}

func (s *Session) forget(url string) {
	s.mu.Lock()
	delete(s.owned, url)
	s.mu.Unlock()
}

// close disposes the editor, ends every event stream and releases the blobs
// this session uploaded that no saved report uses.
func (s *Session) close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	owned := make([]string, 0, len(s.owned))
	for u := range s.owned {
		owned = append(owned, u)
	}
	s.mu.Unlock()

	s.editor.Close()

	s.subMu.Lock()
	subs := s.subscribers
	s.subscribers = nil
	s.subMu.Unlock()
	for stream := range subs {
		stream.Close()
	}

	s.release(ctx, owned...)
}
