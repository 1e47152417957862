package plantings

import (
	"errors"
	"net/http"
)

// Domain errors for planting operations.
var (
	ErrNotFound        = errors.New("planting not found")
	ErrDuplicate       = errors.New("planting already exists")
	ErrInvalidPlanting = errors.New("invalid planting")
	ErrHarvested       = errors.New("planting already harvested")
)

// MapHTTPStatus maps planting domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrHarvested) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidPlanting) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
