package processes

import (
	"context"
	"time"

	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/google/uuid"
)

// System manages the case catalog.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Process], error)
	Find(ctx context.Context, id uuid.UUID) (*Process, error)
	FindByNumber(ctx context.Context, number string) (*Process, error)
	Create(ctx context.Context, cmd CreateCommand) (*Process, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Process, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Process, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, today time.Time, horizon int) (*Summary, error)
}

// Summary aggregates the docket for the dashboard.
type Summary struct {
	Active      int       `json:"active"`
	Delivered   int       `json:"delivered"`
	Concluded   int       `json:"concluded"`
	Overdue     int       `json:"overdue"`
	PendingFees Cents     `json:"pending_fees"`
	Upcoming    []Process `json:"upcoming"`
}
