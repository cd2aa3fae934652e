package laudos

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("laudo not found")
	ErrInvalidLaudo   = errors.New("invalid laudo")
	ErrUnknownProcess = errors.New("process not registered")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownProcess):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidLaudo):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
