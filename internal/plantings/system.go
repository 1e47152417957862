package plantings

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// System defines the public contract for planting operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Planting], error)

	Find(ctx context.Context, id uuid.UUID) (*Planting, error)

	// Create ensures the crop exists, then stores the planting with its
	// initial observation and system-generated plan in one transaction.
	Create(ctx context.Context, cmd CreateCommand) (*Planting, error)

	// Progress recomputes elapsed days, stage, progress, and health score,
	// persists them, and returns the planting's progress view.
	Progress(ctx context.Context, id uuid.UUID) (*ProgressView, error)

	Harvest(ctx context.Context, id uuid.UUID) (*Planting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
