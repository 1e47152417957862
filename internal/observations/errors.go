package observations

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for observation operations.
var (
	ErrNotFound           = errors.New("observation not found")
	ErrDuplicate          = errors.New("observation already exists")
	ErrPlantingNotFound   = errors.New("planting not found")
	ErrInvalidObservation = errors.New("invalid observation")
)

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidObservation, field, value)
}

// MapHTTPStatus maps observation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPlantingNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidObservation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
