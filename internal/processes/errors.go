package processes

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("process not found")
	ErrDuplicate      = errors.New("process number already registered")
	ErrInvalidProcess = errors.New("invalid process")
)

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidProcess) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
