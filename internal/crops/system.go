package crops

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// System defines the public contract for crop catalogue operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Crop], error)

	Find(ctx context.Context, id uuid.UUID) (*Crop, error)
	FindByName(ctx context.Context, name string) (*Crop, error)

	// Ensure returns the crop named name, creating it with default growing
	// parameters when the catalogue has no entry.
	Ensure(ctx context.Context, name string) (*Crop, error)

	// Milestones returns the crop's milestones ordered by day.
	Milestones(ctx context.Context, cropID uuid.UUID) ([]Milestone, error)
}
