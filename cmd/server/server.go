package main

import (
	"time"

	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/internal/infrastructure"
	"github.com/JaimeStill/perito-hub/internal/server"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    server.System
}

// NewServer wires every subsystem from cfg. Nothing is started yet.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("perito-hub configured",
		"env", cfg.Env(),
		"api", modules.API.Prefix(),
		"docs", modules.Docs.Prefix(),
		"export_timeout", cfg.Export.Timeout,
		"session_idle_timeout", cfg.Sessions.IdleTimeout,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    server.New(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start brings up storage and the database pool, then binds the listener.
// Readiness is logged once every startup hook has returned.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	s.infra.Logger.Info("listening", "addr", s.http.Addr())

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("ready")
	}()
	return nil
}

// Shutdown cancels the lifecycle context, which ends SSE streams, closes
// open editing sessions and drains the listener, waiting at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
