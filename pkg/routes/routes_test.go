package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/perito-hub/pkg/openapi"
	"github.com/JaimeStill/perito-hub/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + ":" + r.PathValue("id")))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("test", "0.0.0")

	group := routes.Group{
		Prefix: "/sessions",
		Tags:   []string{"Sessions"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: respond("list"), OpenAPI: &openapi.Operation{Summary: "List"}},
			{Method: "GET", Pattern: "/{id}", Handler: respond("find"), OpenAPI: &openapi.Operation{Summary: "Find"}},
		},
		Children: []routes.Group{{
			Prefix: "/{id}/photos",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "", Handler: respond("add"), OpenAPI: &openapi.Operation{Summary: "Add"}},
			},
		}},
	}

	routes.Register(mux, "/api", spec, group)

	tests := []struct {
		method, path, want string
	}{
		{"GET", "/sessions", "list:"},
		{"GET", "/sessions/abc", "find:abc"},
		{"POST", "/sessions/abc/photos", "add:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.want)
			}
		})
	}

	for _, path := range []string{"/api/sessions", "/api/sessions/{id}", "/api/sessions/{id}/photos"} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}

	add := spec.Paths["/api/sessions/{id}/photos"].Post
	if len(add.Tags) != 1 || add.Tags[0] != "Sessions" {
		t.Errorf("child route tags = %v, want inherited [Sessions]", add.Tags)
	}
}
