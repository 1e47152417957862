package recommendations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// System defines the public contract for recommendation operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Recommendation], error)

	Find(ctx context.Context, id uuid.UUID) (*Recommendation, error)

	// Generate runs the decision engine against the planting's current state
	// and stores the result. Collaborator failures degrade to defaults; only
	// a missing planting or a failed write is an error.
	Generate(ctx context.Context, plantingID uuid.UUID) (*Recommendation, error)

	// Implement marks the recommendation carried out and records a note
	// observation on its planting.
	Implement(ctx context.Context, id uuid.UUID) (*Recommendation, error)
}
