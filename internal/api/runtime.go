package api

import (
	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/JaimeStill/perito-hub/internal/infrastructure"
	"github.com/JaimeStill/perito-hub/internal/sessions"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Export     exports.Settings
	Sessions   sessions.Settings
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Export:     cfg.Export.Settings(),
		Sessions:   cfg.Sessions.Settings(),
	}
}
