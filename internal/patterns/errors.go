package patterns

import (
	"errors"
	"net/http"
)

// Domain errors for pattern operations.
var (
	ErrNotFound      = errors.New("pattern not found")
	ErrDuplicate     = errors.New("pattern already exists")
	ErrInvalidFilter = errors.New("invalid pattern filter")
)

// MapHTTPStatus maps pattern domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidFilter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
