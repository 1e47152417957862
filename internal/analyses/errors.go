package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cropwise/internal/vision"
)

// Domain errors for image analysis operations.
var (
	ErrNotFound         = errors.New("analysis not found")
	ErrDuplicate        = errors.New("analysis already exists")
	ErrPlantingNotFound = errors.New("planting not found")
	ErrInvalidImage     = errors.New("invalid image upload")
	ErrImageTooLarge    = errors.New("image exceeds maximum upload size")
	ErrInvalidRequest   = errors.New("invalid analysis request")
)

// MapHTTPStatus maps analysis domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPlantingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidImage), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, vision.ErrDisabled), errors.Is(err, vision.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
