// Package routes declares HTTP routes with their OpenAPI operations and
// registers both in one pass.
package routes

import (
	"net/http"

	"github.com/JaimeStill/perito-hub/pkg/openapi"
)

// Route is one method + pattern pair. Pattern is relative to its group prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group is a set of routes under a shared prefix. Children nest beneath it.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Register adds every route in groups to mux and documents it in spec.
// The mux sees paths relative to the module (basePath already stripped);
// the spec records the full public path.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, g := range groups {
		registerGroup(mux, basePath, "", spec, g, nil)
	}
}

func registerGroup(mux *http.ServeMux, basePath, parent string, spec *openapi.Spec, g Group, inherited []string) {
	prefix := parent + g.Prefix
	tags := g.Tags
	if len(tags) == 0 {
		tags = inherited
	}

	for _, r := range g.Routes {
		path := prefix + r.Pattern
		if path == "" {
			path = "/"
		}
		mux.HandleFunc(r.Method+" "+path, r.Handler)

		if spec != nil && r.OpenAPI != nil {
			if len(r.OpenAPI.Tags) == 0 {
				r.OpenAPI.Tags = tags
			}
			spec.AddOperation(basePath+path, r.Method, r.OpenAPI)
		}
	}

	for _, child := range g.Children {
		registerGroup(mux, basePath, prefix, spec, child, tags)
	}
}
