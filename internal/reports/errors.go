package reports

import "errors"

var (
	ErrInvalidOption   = errors.New("invalid export option")
	ErrInvalidMetadata = errors.New("invalid report metadata")
	ErrClosed          = errors.New("editor closed")
	ErrPersist         = errors.New("persist failed")

	ErrExportInvalidInput = errors.New("export rejected: invalid input")
	ErrExportUnavailable  = errors.New("export backend unavailable")
	ErrExportTimeout      = errors.New("export timed out")
)
