package archive

import (
	"context"

	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/google/uuid"
)

// System saves report snapshots and manages saved reports.
type System interface {
	reports.Persister

	Handler() *Handler
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error)
	Find(ctx context.Context, id uuid.UUID) (*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Referenced reports which of the given photo URLs belong to a saved report.
	Referenced(ctx context.Context, urls []string) (map[string]bool, error)
}
