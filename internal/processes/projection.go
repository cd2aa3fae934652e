package processes

import (
	"net/url"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
)

var projection = query.NewProjectionMap("public", "processes", "p").
	Project("id", "ID").
	Project("number", "Number").
	Project("court", "Court").
	Project("kind", "Kind").
	Project("party", "Party").
	Project("status", "Status").
	Project("designated_at", "DesignatedAt").
	Project("deadline", "Deadline").
	Project("fee_cents", "Fee").
	Project("description", "Description").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Deadline"}

func scanProcess(s repository.Scanner) (Process, error) {
	var p Process
	err := s.Scan(
		&p.ID,
		&p.Number,
		&p.Court,
		&p.Kind,
		&p.Party,
		&p.Status,
		&p.DesignatedAt.Time,
		&p.Deadline.Time,
		&p.Fee,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

type Filters struct {
	Status *string
	Kind   *string
	Court  *string
	// DueBefore limits results to deadlines on or before the date.
	DueBefore *time.Time
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("status"); v != "" {
		f.Status = &v
	}

	if v := values.Get("kind"); v != "" {
		f.Kind = &v
	}

	if v := values.Get("court"); v != "" {
		f.Court = &v
	}

	if d, err := photos.ParseDate(values.Get("due_before")); err == nil {
		f.DueBefore = &d.Time
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Kind", f.Kind).
		WhereContains("Court", f.Court).
		WhereBefore("Deadline", f.DueBefore)
}
