package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/perito-hub/pkg/openapi"
)

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("PeritoHub API", "1.0.0")
	get := &openapi.Operation{Summary: "List"}
	post := &openapi.Operation{Summary: "Create"}

	spec.AddOperation("/api/processes", http.MethodGet, get)
	spec.AddOperation("/api/processes", http.MethodPost, post)
	spec.AddOperation("/api/processes", http.MethodPatch, &openapi.Operation{})
	spec.AddOperation("/api/none", http.MethodGet, nil)

	item := spec.Paths["/api/processes"]
	if item == nil {
		t.Fatal("path not registered")
	}
	if item.Get != get || item.Post != post {
		t.Error("operations not attached to the expected methods")
	}
	if _, ok := spec.Paths["/api/none"]; ok {
		t.Error("nil operation should not register a path")
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("PeritoHub API", "1.0.0")
	spec.SetDescription("desc")
	spec.AddServer("http://localhost:8080")
	spec.AddServer("")
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Processo": {Type: "object", Properties: map[string]*openapi.Schema{"number": {Type: "string"}}},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", doc["openapi"])
	}
	if servers := doc["servers"].([]any); len(servers) != 1 {
		t.Errorf("len(servers) = %d, want 1", len(servers))
	}
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["Processo"]; !ok {
		t.Error("component schema Processo missing")
	}
}

func TestServeSpec(t *testing.T) {
	w := httptest.NewRecorder()
	openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`))(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"openapi":"3.1.0"}` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestSchemaRef(t *testing.T) {
	if got := openapi.SchemaRef("Artifact").Ref; got != "#/components/schemas/Artifact" {
		t.Errorf("SchemaRef() = %q", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef() = %q", got)
	}
}
