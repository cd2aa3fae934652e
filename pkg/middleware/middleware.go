// Package middleware provides the HTTP middleware stack applied to modules.
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// System accumulates middleware and applies it in registration order,
// so the first Use call becomes the outermost wrapper.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	middlewares []Middleware
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		handler = s.middlewares[i](handler)
	}
	return handler
}
