package exports

import (
	"net/url"

	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
	"github.com/google/uuid"
)

var projection = query.NewProjectionMap("public", "artifacts", "a").
	Project("id", "ID").
	Project("report_id", "ReportID").
	Project("report_title", "ReportTitle").
	Project("process_ref", "ProcessRef").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("page_size", "PageSize").
	Project("orientation", "Orientation").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(
		&a.ID,
		&a.ReportID,
		&a.ReportTitle,
		&a.ProcessRef,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&a.PageSize,
		&a.Orientation,
		&a.StorageKey,
		&a.CreatedAt,
	)
	return a, err
}

// Filters narrows artifact listings.
type Filters struct {
	ReportID    *uuid.UUID
	ReportTitle *string
	ProcessRef  *string
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("report_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ReportID = &id
		}
	}

	if v := values.Get("report_title"); v != "" {
		f.ReportTitle = &v
	}

	if v := values.Get("process_ref"); v != "" {
		f.ProcessRef = &v
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ReportID", f.ReportID).
		WhereContains("ReportTitle", f.ReportTitle).
		WhereEquals("ProcessRef", f.ProcessRef)
}
