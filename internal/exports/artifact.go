// Package exports renders photographic reports to PDF and keeps a catalog
// of the generated artifacts.
package exports

import (
	"time"

	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/google/uuid"
)

const ContentTypePDF = "application/pdf"

// Artifact is a stored export together with the report it was rendered from.
type Artifact struct {
	ID          uuid.UUID           `json:"id"`
	ReportID    uuid.UUID           `json:"report_id"`
	ReportTitle string              `json:"report_title"`
	ProcessRef  string              `json:"process_ref"`
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type"`
	SizeBytes   int64               `json:"size_bytes"`
	PageCount   int                 `json:"page_count"`
	PageSize    reports.PageSize    `json:"page_size"`
	Orientation reports.Orientation `json:"orientation"`
	StorageKey  string              `json:"storage_key"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Reference returns the editor-facing view of the artifact.
func (a Artifact) Reference() reports.Artifact {
	return reports.Artifact{
		ID:          a.ID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		PageCount:   a.PageCount,
		StorageKey:  a.StorageKey,
		CreatedAt:   a.CreatedAt,
	}
}

// Settings tunes rendering and fetching.
type Settings struct {
	Timeout           time.Duration
	MaxImageDimension int
	JPEGQuality       int
	CoverPage         bool
	PreviewDPI        int
	FetchTimeout      time.Duration
	MaxFetchBytes     int64
	Workers           int
}

// DefaultSettings returns the settings used when configuration omits a value.
func DefaultSettings() Settings {
	return Settings{
		Timeout:           60 * time.Second,
		MaxImageDimension: 2000,
		JPEGQuality:       85,
		CoverPage:         true,
		PreviewDPI:        110,
		FetchTimeout:      15 * time.Second,
		MaxFetchBytes:     25 << 20,
	}
}
