package weather

import (
	"errors"
	"net/http"
)

var (
	ErrDisabled        = errors.New("weather provider not configured")
	ErrInvalidLocation = errors.New("invalid location")
	ErrUpstream        = errors.New("weather provider request failed")
)

// MapHTTPStatus maps weather errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
