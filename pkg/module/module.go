// Package module mounts independently configured handlers under single-segment
// URL prefixes. Each module carries its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/perito-hub/pkg/middleware"
)

// Module is a handler served beneath a prefix such as "/api".
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System
}

// New creates a Module. It panics unless prefix is a single path segment
// with a leading slash, since a bad prefix is a wiring bug.
func New(prefix string, handler http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		handler:    handler,
		middleware: middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module stack.
func (m *Module) Use(mw middleware.Middleware) {
	m.middleware.Use(mw)
}

// Handler returns the wrapped handler. Requests reaching it have the prefix stripped.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.handler)
}

func (m *Module) serve(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := req.Clone(req.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""

	m.Handler().ServeHTTP(w, r2)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module: prefix required")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module: prefix %q must start with /", prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("module: prefix %q must be a single path segment", prefix)
	}
	return nil
}
