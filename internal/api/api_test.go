package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/api"
	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/internal/infrastructure"
	"github.com/JaimeStill/perito-hub/pkg/module"
)

func newModule(t *testing.T) *module.Module {
	t.Helper()

	cfg, err := config.Parse([]byte(`
[database]
name = "perito"
user = "perito"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	cfg.Storage.BasePath = t.TempDir()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	})

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	return m
}

func TestNewModule_OpenAPI(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newModule(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	paths := []struct {
		path   string
		method string
	}{
		{"/api/processes", "get"},
		{"/api/laudos", "get"},
		{"/api/laudos/{id}/status", "put"},
		{"/api/reports", "get"},
		{"/api/exports", "get"},
		{"/api/sessions", "post"},
		{"/api/sessions/{id}/export", "post"},
		{"/api/sessions/{id}/options", "patch"},
		{"/api/sessions/{id}/photos/{photo}/move", "post"},
		{"/api/sessions/{id}/photos/upload", "post"},
	}
	for _, p := range paths {
		ops, ok := doc.Paths[p.path]
		if !ok {
			t.Errorf("path %s missing from spec", p.path)
			continue
		}
		if _, ok := ops[p.method]; !ok {
			t.Errorf("%s %s missing from spec", p.method, p.path)
		}
	}

	if len(doc.Components.Schemas) == 0 {
		t.Error("spec has no component schemas")
	}
}

func TestNewModule_UnknownRoute(t *testing.T) {
	router := module.NewRouter()
	router.Mount(newModule(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
