package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Scheme prefixes blob references handed to clients.
const Scheme = "storage://"

// URL returns the client-facing reference for key.
func URL(key string) string {
	return Scheme + key
}

// KeyFromURL extracts the key from a storage reference. ok is false for
// any other URL.
func KeyFromURL(ref string) (key string, ok bool) {
	key, ok = strings.CutPrefix(ref, Scheme)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// BuildKey returns "<prefix>/<id>/<sanitized filename>".
func BuildKey(prefix string, id uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, id.String(), SanitizeFilename(filename))
}

// SanitizeFilename strips directories and replaces characters that are
// unsafe in paths.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)
	if name == "." || name == ".." || name == "" {
		return "file"
	}
	return name
}
