package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/google/uuid"
)

type State string

const (
	StateIdle      State = "idle"
	StateEditing   State = "editing"
	StateExporting State = "exporting"
)

// Config wires an Editor to its collaborators. Gateway and Persister are
// required; the remaining fields have defaults.
type Config struct {
	ReportID  uuid.UUID
	Gateway   Gateway
	Persister Persister
	Sink      Sink
	Logger    *slog.Logger
	Clock     func() time.Time
	Metadata  Metadata
	Options   Options
	IDPolicy  photos.IDPolicy
}

// Editor owns one report: its metadata, photo sequence, and export options.
// Mutations are synchronous; Save and RequestExport hand a snapshot to a
// collaborator and report the outcome through the Sink and the returned Task.
type Editor struct {
	mu        sync.Mutex
	id        uuid.UUID
	store     *photos.Store
	metadata  Metadata
	options   Options
	gateway   Gateway
	persister Persister
	sink      Sink
	logger    *slog.Logger
	clock     func() time.Time

	state    State
	inflight int
	revision uint64
	saved    uint64
	closed   bool
}

func NewEditor(cfg Config) (*Editor, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("editor: gateway is required")
	}
	if cfg.Persister == nil {
		return nil, errors.New("editor: persister is required")
	}

	id := cfg.ReportID
	if id == uuid.Nil {
		id = uuid.New()
	}

	options := cfg.Options
	if options == (Options{}) {
		options = DefaultOptions("")
	}
	options = options.Normalize()
	if err := options.Validate(); err != nil {
		return nil, err
	}

	metadata := cfg.Metadata.Clone()
	if metadata.Title == "" {
		metadata.Title = DefaultTitle
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	sink := cfg.Sink
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}

	return &Editor{
		id:        id,
		store:     photos.NewStoreWithPolicy(cfg.IDPolicy),
		metadata:  metadata,
		options:   options,
		gateway:   cfg.Gateway,
		persister: cfg.Persister,
		sink:      sink,
		logger:    logger.With("report_id", id),
		clock:     clock,
		state:     StateIdle,
	}, nil
}

func (e *Editor) ID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Dirty reports whether the report changed since it was created, loaded,
// or last saved.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision != e.saved
}

// InFlight returns the number of exports awaiting a gateway response.
func (e *Editor) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight
}

// AddPhoto appends a photo. A zero date defaults to today on the editor clock.
func (e *Editor) AddPhoto(d photos.Draft) (photos.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return photos.Record{}, ErrClosed
	}

	if d.Date.IsZero() {
		d.Date = photos.NewDate(e.clock())
	}

	rec := e.store.Add(d)
	e.touch()
	e.emit(Event{Type: EventPhotoAdded, PhotoID: rec.ID, Photo: &rec})
	return rec, nil
}

// DeletePhoto removes a photo and returns it. The removal event is emitted
// even when id is unknown.
func (e *Editor) DeletePhoto(id int) (photos.Record, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return photos.Record{}, false, ErrClosed
	}

	rec, ok := e.store.Remove(id)
	if ok {
		e.touch()
	} else {
		e.logger.Debug("delete of unknown photo", "photo_id", id)
	}
	e.emit(Event{Type: EventPhotoRemoved, PhotoID: id})
	return rec, ok, nil
}

// Reorder moves a photo one step. Nothing is emitted when no move occurs.
func (e *Editor) Reorder(id int, dir photos.Direction) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}

	if !e.store.Move(id, dir) {
		return false, nil
	}
	e.touch()
	e.emit(Event{Type: EventPhotoReordered, PhotoID: id, Value: string(dir)})
	return true, nil
}

func (e *Editor) UpdatePhoto(id int, field photos.Field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}

	ok, err := e.store.Update(id, field, value)
	if err != nil {
		return false, err
	}
	if !ok {
		e.logger.Debug("update of unknown photo", "photo_id", id)
		return false, nil
	}

	rec, _ := e.store.Find(id)
	e.touch()
	e.emit(Event{Type: EventPhotoUpdated, PhotoID: id, Photo: &rec, Field: string(field), Value: value})
	return true, nil
}

func (e *Editor) UpdateMetadata(field MetadataField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	if err := e.metadata.Set(field, value); err != nil {
		return err
	}
	e.touch()
	e.emit(Event{Type: EventMetadataUpdated, Field: string(field), Value: value})
	return nil
}

// UpdateOption sets one export option. A rejected value keeps the prior
// option and emits option_invalid.
func (e *Editor) UpdateOption(field OptionField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	if err := e.options.Set(field, value); err != nil {
		e.emit(Event{
			Type:    EventOptionInvalid,
			Field:   string(field),
			Value:   value,
			Err:     err,
			Message: err.Error(),
		})
		return err
	}
	e.touch()
	e.emit(Event{Type: EventOptionUpdated, Field: string(field), Value: value})
	return nil
}

func (e *Editor) Photos() []photos.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Records()
}

func (e *Editor) Photo(id int) (photos.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Find(id)
}

func (e *Editor) Metadata() Metadata {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metadata.Clone()
}

func (e *Editor) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.options
}

// Snapshot returns a deep copy of the current report.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Load replaces the report with snap and marks it clean. The editor adopts
// snap's report id when it has one, so later saves update the same report.
func (e *Editor) Load(snap Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	options := snap.Options.Normalize()
	if err := options.Validate(); err != nil {
		return err
	}

	store := photos.NewStoreWithPolicy(e.storePolicy())
	if err := store.Load(snap.Photos); err != nil {
		return err
	}

	e.store = store
	e.metadata = snap.Metadata.Clone()
	e.options = options
	if snap.ReportID != uuid.Nil && snap.ReportID != e.id {
		e.id = snap.ReportID
		e.logger = e.logger.With("report_id", e.id)
	}
	e.revision++
	e.saved = e.revision
	if e.inflight == 0 {
		e.state = StateIdle
	}
	e.emit(Event{Type: EventReportLoaded})
	return nil
}

// Save hands a snapshot to the persister. The task resolves with the ack or
// an error wrapping ErrPersist. A save that outlives Close still resolves
// but emits nothing.
func (e *Editor) Save(ctx context.Context) *Task[Ack] {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return failedTask[Ack](ErrClosed)
	}
	snap := e.snapshot()
	e.mu.Unlock()

	task := newTask[Ack]()
	go func() {
		ack, err := e.persister.Save(context.WithoutCancel(ctx), snap)
		if err != nil && !errors.Is(err, ErrPersist) {
			err = fmt.Errorf("%w: %w", ErrPersist, err)
		}
		e.finishSave(snap, ack, err)
		task.resolve(ack, err)
	}()
	return task
}

// RequestExport dispatches a snapshot to the gateway. Each call is an
// independent request; overlapping exports are neither queued nor merged.
// Exactly one terminal event is emitted per call unless the editor is
// closed first.
func (e *Editor) RequestExport(ctx context.Context) *Task[Artifact] {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return failedTask[Artifact](ErrClosed)
	}
	snap := e.snapshot()
	e.inflight++
	e.state = StateExporting
	e.mu.Unlock()

	task := newTask[Artifact]()
	go func() {
		artifact, err := e.gateway.Generate(context.WithoutCancel(ctx), snap)
		e.finishExport(artifact, err)
		task.resolve(artifact, err)
	}()
	return task
}

// Close disposes the editor. Later mutations fail with ErrClosed and
// pending tasks resolve without emitting events.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Editor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Editor) finishSave(snap Snapshot, ack Ack, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if err != nil {
		e.emit(Event{Type: EventSaveFailed, Err: err, Message: err.Error()})
		return
	}

	if snap.Revision > e.saved {
		e.saved = snap.Revision
	}
	if e.inflight == 0 && e.revision == e.saved {
		e.state = StateIdle
	}
	e.emit(Event{Type: EventSaveSucceeded, Ack: &ack})
}

func (e *Editor) finishExport(artifact Artifact, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.inflight--
	if e.inflight == 0 {
		if e.revision != e.saved {
			e.state = StateEditing
		} else {
			e.state = StateIdle
		}
	}

	if err != nil {
		e.emit(Event{
			Type:    EventExportFailed,
			Err:     err,
			Message: err.Error(),
			Kind:    ExportErrorKind(err),
		})
		return
	}
	e.emit(Event{Type: EventExportSucceeded, Artifact: &artifact})
}

func (e *Editor) snapshot() Snapshot {
	return Snapshot{
		ReportID: e.id,
		Metadata: e.metadata.Clone(),
		Photos:   e.store.Records(),
		Options:  e.options,
		Revision: e.revision,
		TakenAt:  e.clock(),
	}
}

func (e *Editor) touch() {
	e.revision++
	if e.state == StateIdle {
		e.state = StateEditing
	}
}

func (e *Editor) emit(ev Event) {
	ev.ReportID = e.id
	ev.Timestamp = e.clock()
	e.sink.Notify(ev)
}

func (e *Editor) storePolicy() photos.IDPolicy {
	return e.store.Policy()
}
