package exports

import (
	"context"

	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/google/uuid"
)

// System generates report PDFs and manages the stored artifacts.
type System interface {
	reports.Gateway

	Handler() *Handler
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error)
	Find(ctx context.Context, id uuid.UUID) (*Artifact, error)
	Download(ctx context.Context, id uuid.UUID) (*Artifact, []byte, error)
	Preview(ctx context.Context, id uuid.UUID, page int) ([]byte, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
