package analyses

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for image analysis operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Analyze classifies the image, stores it, and applies the finding to
	// the planting.
	Analyze(ctx context.Context, plantingID uuid.UUID, cmd UploadCommand) (*Analysis, error)

	// Record stores results produced outside the service and applies the
	// finding to the planting.
	Record(ctx context.Context, plantingID uuid.UUID, cmd RecordCommand) (*Analysis, error)

	// List returns the planting's analyses, newest first.
	List(ctx context.Context, plantingID uuid.UUID) ([]Analysis, error)
}
