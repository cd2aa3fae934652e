package archive

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("report not found")
	ErrDuplicate = errors.New("report already exists")
)

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
