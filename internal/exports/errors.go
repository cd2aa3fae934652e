package exports

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/perito-hub/internal/reports"
)

var (
	ErrNotFound       = errors.New("artifact not found")
	ErrDuplicate      = errors.New("artifact storage key already exists")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrPreviewFailed  = errors.New("preview rendering failed")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrPageOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, reports.ErrExportInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reports.ErrExportTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, reports.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
