package errors

import (
	"errors"
	"net/http"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/pricing"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/service"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromError maps engine errors onto HTTP status codes. Unknown slugs and bad
// date ranges are client errors; an uncovered date is a season-config defect
// and therefore server-side; all feeds failing means availability is unknown
// and the request cannot be served right now.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, service.ErrUnknownProperty):
		return NewHTTPError(http.StatusNotFound, "Unknown property")
	case errors.Is(err, availability.ErrInvalidDateRange):
		return NewHTTPError(http.StatusBadRequest, "Invalid date range")
	case errors.Is(err, service.ErrAllFeedsFailed):
		return NewHTTPError(http.StatusServiceUnavailable, service.ErrAllFeedsFailed.Error())
	}

	var uncovered *pricing.UncoveredDateError
	if errors.As(err, &uncovered) {
		return NewHTTPError(http.StatusInternalServerError, uncovered.Error())
	}

	return NewHTTPError(http.StatusInternalServerError, "Server error")
}
