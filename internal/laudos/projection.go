package laudos

import (
	"database/sql"
	"net/url"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
)

var projection = query.NewProjectionMap("public", "laudos", "l").
	Project("id", "ID").
	Project("process_number", "ProcessNumber").
	Project("title", "Title").
	Project("kind", "Kind").
	Project("status", "Status").
	Project("introduction", "Introduction").
	Project("methodology", "Methodology").
	Project("analysis", "Analysis").
	Project("conclusion", "Conclusion").
	Project("delivered_at", "DeliveredAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanLaudo(s repository.Scanner) (Laudo, error) {
	var (
		l         Laudo
		delivered sql.NullTime
	)
	err := s.Scan(
		&l.ID,
		&l.ProcessNumber,
		&l.Title,
		&l.Kind,
		&l.Status,
		&l.Introduction,
		&l.Methodology,
		&l.Analysis,
		&l.Conclusion,
		&delivered,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if delivered.Valid {
		d := photos.NewDate(delivered.Time)
		l.DeliveredAt = &d
	}
	return l, err
}

type Filters struct {
	Status  *string
	Kind    *string
	Process *string
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("status"); v != "" {
		f.Status = &v
	}

	if v := values.Get("kind"); v != "" {
		f.Kind = &v
	}

	if v := values.Get("process_number"); v != "" {
		f.Process = &v
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Kind", f.Kind).
		WhereEquals("ProcessNumber", f.Process)
}
