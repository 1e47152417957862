package recommendations

import (
	"errors"
	"net/http"
)

// Domain errors for recommendation operations.
var (
	ErrNotFound         = errors.New("recommendation not found")
	ErrDuplicate        = errors.New("recommendation already exists")
	ErrPlantingNotFound = errors.New("planting not found")
	ErrImplemented      = errors.New("recommendation already implemented")
	ErrInvalidID        = errors.New("invalid recommendation id")
)

// MapHTTPStatus maps recommendation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPlantingNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrImplemented) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
