// Package api provides the HTTP API for the application
package api

import (
	"autoscrum/internal/platform/config"
	"autoscrum/internal/platform/logger"
	phttp "autoscrum/internal/platform/net/http"
	"autoscrum/internal/platform/store"

	"autoscrum/internal/modkit"
	"autoscrum/internal/modkit/httpkit"
	"autoscrum/internal/modkit/module"
	"autoscrum/internal/modkit/swaggerkit"

	metamod "autoscrum/internal/services/api/meta/module"
	assignmod "autoscrum/internal/services/assign/module"
	clarifymod "autoscrum/internal/services/clarify/module"
	storiesmod "autoscrum/internal/services/stories/module"
	triagemod "autoscrum/internal/services/triage/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		KV:  opt.Store.KV,
	}

	mods := []module.Module{
		metamod.New(deps),
		clarifymod.New(deps),
		storiesmod.New(deps),
		assignmod.New(deps),
		triagemod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
