package patterns

import (
	"context"
	"io"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// System defines the public contract for decision pattern operations.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, p decision.Pattern) (*Record, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	// Export writes every matching pattern as CSV, oldest first, and returns
	// the number of rows written.
	Export(ctx context.Context, w io.Writer, filters Filters) (int, error)
}
