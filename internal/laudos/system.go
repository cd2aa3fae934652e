package laudos

import (
	"context"

	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/google/uuid"
)

// System manages the laudo catalog.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Laudo], error)
	Find(ctx context.Context, id uuid.UUID) (*Laudo, error)
	Create(ctx context.Context, cmd CreateCommand) (*Laudo, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Laudo, error)
	// SetStatus moves a laudo through its workflow. Delivering a laudo
	// stamps delivered_at and marks its open case as laudo_entregue.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Laudo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
