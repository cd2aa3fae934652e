// Package storage provides blob storage for photos, exported reports and
// rendered previews. Keys are slash-separated relative paths.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/perito-hub/pkg/lifecycle"
)

var (
	// ErrNotFound indicates the requested key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates the key exists but cannot be accessed.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey covers empty keys and keys escaping the base path.
	ErrInvalidKey = errors.New("storage: invalid key")

	ErrTooLarge = errors.New("storage: blob exceeds max_blob_size")
)

// System is the blob store used by the domain packages.
type System interface {
	// Store writes data at key, replacing any previous contents.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve reads the data stored at key.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Path resolves key to a local file path for tools that need one
	// (ImageMagick rendering, pdfcpu file APIs).
	Path(ctx context.Context, key string) (string, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
