package archive

import (
	"net/url"

	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
)

var projection = query.NewProjectionMap("public", "saved_reports", "r").
	Project("id", "ID").
	Project("process_ref", "ProcessRef").
	Project("related_report_ref", "RelatedReportRef").
	Project("title", "Title").
	Project("description", "Description").
	Project("page_size", "PageSize").
	Project("orientation", "Orientation").
	Project("footer_text", "FooterText").
	Project("photo_count", "PhotoCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "UpdatedAt", Descending: true}

func scanReport(s repository.Scanner) (Report, error) {
	var r Report
	err := s.Scan(
		&r.ID,
		&r.ProcessRef,
		&r.RelatedReportRef,
		&r.Title,
		&r.Description,
		&r.PageSize,
		&r.Orientation,
		&r.FooterText,
		&r.PhotoCount,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// Filters narrows saved-report listings.
type Filters struct {
	ProcessRef *string
	Title      *string
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("process_ref"); v != "" {
		f.ProcessRef = &v
	}

	if v := values.Get("title"); v != "" {
		f.Title = &v
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProcessRef", f.ProcessRef).
		WhereContains("Title", f.Title)
}
