package main

import (
	"net/http"

	"github.com/JaimeStill/perito-hub/internal/api"
	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/internal/infrastructure"
	"github.com/JaimeStill/perito-hub/pkg/middleware"
	"github.com/JaimeStill/perito-hub/pkg/module"
	"github.com/JaimeStill/perito-hub/web/docs"
)

type Modules struct {
	API  *module.Module
	Docs *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	docsModule := docs.NewModule("/docs", cfg.API.BasePath+"/openapi.json")
	docsModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:  apiModule,
		Docs: docsModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Docs)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := infra.Ready(r.Context()); err != nil {
			infra.Logger.Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	return router
}
