// Package module wires story generation into the API using modkit
package module

import (
	"net/http"

	"autoscrum/internal/adapters/reasoning"
	modkit "autoscrum/internal/modkit"
	"autoscrum/internal/modkit/httpkit"
	str "autoscrum/internal/platform/strings"
	storieshttp "autoscrum/internal/services/stories/http"
	storiesrepo "autoscrum/internal/services/stories/repo"
	storiessvc "autoscrum/internal/services/stories/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc storiessvc.Service
}

// New constructs a stories module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("stories"), modkit.WithPrefix("/stories")}, opts...)...)

	reasoner := reasoning.NewClient(reasoning.FromConfig(deps.Cfg))
	svc := storiessvc.New(storiesrepo.NewKV(deps.KV), reasoner)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptStoriesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		storieshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
