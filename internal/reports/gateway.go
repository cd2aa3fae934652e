package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Artifact references a generated document.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   int       `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ack confirms a persisted report.
type Ack struct {
	ReportID uuid.UUID `json:"report_id"`
	SavedAt  time.Time `json:"saved_at"`
}

// Gateway renders a report snapshot into a document. Implementations make a
// single attempt per call and bound it with their own timeout, reporting
// ErrExportTimeout when it elapses.
type Gateway interface {
	Generate(ctx context.Context, snap Snapshot) (Artifact, error)
}

// Persister stores a report snapshot. Failures wrap ErrPersist.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) (Ack, error)
}

type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindUnavailable  ErrorKind = "unavailable"
	KindTimeout      ErrorKind = "timeout"
)

// ExportErrorKind classifies a gateway error. Errors carrying none of the
// export sentinels count as unavailable.
func ExportErrorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrExportInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrExportTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindUnavailable
	}
}
