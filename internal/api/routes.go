package api

import (
	"net/http"

	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/JaimeStill/perito-hub/internal/laudos"
	"github.com/JaimeStill/perito-hub/internal/processes"
	"github.com/JaimeStill/perito-hub/internal/sessions"
	"github.com/JaimeStill/perito-hub/pkg/openapi"
	"github.com/JaimeStill/perito-hub/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, spec *openapi.Spec, domain *Domain, basePath string) {
	spec.Components.AddSchemas(processes.Spec.Schemas())
	spec.Components.AddSchemas(laudos.Spec.Schemas())
	spec.Components.AddSchemas(archive.Spec.Schemas())
	spec.Components.AddSchemas(exports.Spec.Schemas())
	spec.Components.AddSchemas(sessions.Spec.Schemas())

	routes.Register(
		mux,
		basePath,
		spec,
		domain.Processes.Handler().Routes(),
		domain.Laudos.Handler().Routes(),
		domain.Archive.Handler().Routes(),
		domain.Exports.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
	)
}
