package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/storage"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrNoFiles        = errors.New("no files uploaded")
	ErrNotImage       = errors.New("file is not a supported image")
	ErrUploadTooLarge = errors.New("upload exceeds maximum size")
	ErrUnknownLaudo   = errors.New("related report is not a laudo of this case")
)

// MapHTTPStatus maps session, editor and collaborator errors onto HTTP
// status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPhotoNotFound),
		errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reports.ErrClosed):
		return http.StatusGone
	case errors.Is(err, ErrUploadTooLarge),
		errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrNoFiles),
		errors.Is(err, reports.ErrInvalidOption),
		errors.Is(err, reports.ErrInvalidMetadata),
		errors.Is(err, photos.ErrInvalidField),
		errors.Is(err, photos.ErrInvalidDate),
		errors.Is(err, photos.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, reports.ErrExportInvalidInput),
		errors.Is(err, ErrUnknownLaudo):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reports.ErrExportTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, reports.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
