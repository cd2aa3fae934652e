// Package api assembles the REST module: domain systems, their routes and
// the generated OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/internal/infrastructure"
	"github.com/JaimeStill/perito-hub/pkg/middleware"
	"github.com/JaimeStill/perito-hub/pkg/module"
	"github.com/JaimeStill/perito-hub/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath. The domain's
// background work is registered with the lifecycle coordinator.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)
	if err := domain.Start(runtime); err != nil {
		return nil, err
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, domain, cfg.API.BasePath)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
