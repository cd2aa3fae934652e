// Package archive persists report snapshots and serves the saved-report
// catalog.
package archive

import (
	"database/sql"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/google/uuid"
)

// Report is a saved report. Photos is only populated by Find.
type Report struct {
	ID               uuid.UUID           `json:"id"`
	ProcessRef       string              `json:"process_ref"`
	RelatedReportRef *string             `json:"related_report_ref,omitempty"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	PageSize         reports.PageSize    `json:"page_size"`
	Orientation      reports.Orientation `json:"orientation"`
	FooterText       string              `json:"footer_text"`
	PhotoCount       int                 `json:"photo_count"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Photos           []photos.Record     `json:"photos,omitempty"`
}

// Snapshot rebuilds the editable report.
func (r Report) Snapshot() reports.Snapshot {
	records := r.Photos
	if records == nil {
		records = []photos.Record{}
	}
	return reports.Snapshot{
		ReportID: r.ID,
		Metadata: reports.Metadata{
			ProcessRef:       r.ProcessRef,
			RelatedReportRef: r.RelatedReportRef,
			Title:            r.Title,
			Description:      r.Description,
		}.Clone(),
		Photos: records,
		Options: reports.Options{
			PageSize:    r.PageSize,
			Orientation: r.Orientation,
			FooterText:  r.FooterText,
		},
	}.Clone()
}

func nullDate(d photos.Date) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

func dateFromNull(t sql.NullTime) photos.Date {
	if !t.Valid {
		return photos.Date{}
	}
	return photos.NewDate(t.Time)
}
