package crops

import (
	"errors"
	"net/http"
)

// Domain errors for crop operations.
var (
	ErrNotFound    = errors.New("crop not found")
	ErrDuplicate   = errors.New("crop already exists")
	ErrInvalidCrop = errors.New("invalid crop")
)

// MapHTTPStatus maps crop domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCrop) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
