package reports

import (
	"log/slog"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/google/uuid"
)

type EventType string

const (
	EventPhotoAdded      EventType = "photo_added"
	EventPhotoRemoved    EventType = "photo_removed"
	EventPhotoReordered  EventType = "photo_reordered"
	EventPhotoUpdated    EventType = "photo_updated"
	EventMetadataUpdated EventType = "metadata_updated"
	EventOptionUpdated   EventType = "option_updated"
	EventOptionInvalid   EventType = "option_invalid"
	EventReportLoaded    EventType = "report_loaded"
	EventSaveSucceeded   EventType = "save_succeeded"
	EventSaveFailed      EventType = "save_failed"
	EventExportSucceeded EventType = "export_succeeded"
	EventExportFailed    EventType = "export_failed"
)

// Event is a notification emitted by an Editor. Only the fields relevant to
// Type are set.
type Event struct {
	Type      EventType      `json:"type"`
	ReportID  uuid.UUID      `json:"report_id"`
	Timestamp time.Time      `json:"timestamp"`
	PhotoID   int            `json:"photo_id,omitempty"`
	Photo     *photos.Record `json:"photo,omitempty"`
	Field     string         `json:"field,omitempty"`
	Value     string         `json:"value,omitempty"`
	Artifact  *Artifact      `json:"artifact,omitempty"`
	Ack       *Ack           `json:"ack,omitempty"`
	Err       error          `json:"-"`
	Message   string         `json:"message,omitempty"`
	Kind      ErrorKind      `json:"kind,omitempty"`
}

// Failed reports whether the event carries an error.
func (e Event) Failed() bool {
	return e.Err != nil
}

// Sink receives editor notifications. Notify is called with the editor lock
// held and must neither block nor call back into the editor.
type Sink interface {
	Notify(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }

// MultiSink fans one event out to several sinks in order.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Notify(e Event) {
	for _, s := range m.sinks {
		if s != nil {
			s.Notify(e)
		}
	}
}

// LogSink writes every event to logger. Failures log at warn.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Notify(e Event) {
	attrs := []any{"event", e.Type, "report_id", e.ReportID}
	if e.PhotoID != 0 {
		attrs = append(attrs, "photo_id", e.PhotoID)
	}
	if e.Field != "" {
		attrs = append(attrs, "field", e.Field)
	}
	if e.Artifact != nil {
		attrs = append(attrs, "artifact_id", e.Artifact.ID, "pages", e.Artifact.PageCount)
	}

	if e.Failed() {
		attrs = append(attrs, "error", e.Err)
		if e.Kind != "" {
			attrs = append(attrs, "kind", e.Kind)
		}
		l.logger.Warn("report event", attrs...)
		return
	}
	l.logger.Debug("report event", attrs...)
}
