package observations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// System defines the public contract for observation operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Observation], error)

	// Create records an observation and updates the planting's pest pressure,
	// disease flag, last observation time, and health score in one transaction.
	Create(ctx context.Context, plantingID uuid.UUID, cmd CreateCommand) (*Observation, error)

	// Latest returns the most recent observation, or nil when none exist.
	Latest(ctx context.Context, plantingID uuid.UUID) (*Observation, error)
}
