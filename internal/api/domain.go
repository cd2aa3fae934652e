package api

import (
	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/JaimeStill/perito-hub/internal/laudos"
	"github.com/JaimeStill/perito-hub/internal/processes"
	"github.com/JaimeStill/perito-hub/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Processes processes.System
	Laudos    laudos.System
	Archive   archive.System
	Exports   exports.System
	Sessions  sessions.System
}

// NewDomain creates all domain systems from the API runtime. Sessions edit
// reports through the archive, export them through the exports system and
// attach them to laudos.
func NewDomain(runtime *Runtime) *Domain {
	processesSys := processes.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	laudosSys := laudos.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	archiveSys := archive.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	exportsSys := exports.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.Export,
	)

	sessionsSys := sessions.New(
		exportsSys,
		archiveSys,
		laudosSys,
		runtime.Storage,
		runtime.Logger,
		runtime.Sessions,
	)

	return &Domain{
		Processes: processesSys,
		Laudos:    laudosSys,
		Archive:   archiveSys,
		Exports:   exportsSys,
		Sessions:  sessionsSys,
	}
}

// Start launches the background work of the domain systems.
func (d *Domain) Start(runtime *Runtime) error {
	return d.Sessions.Start(runtime.Lifecycle)
}
