// Package module wires assignment planning into the API using modkit
package module

import (
	"net/http"

	"autoscrum/internal/adapters/jira"
	modkit "autoscrum/internal/modkit"
	"autoscrum/internal/modkit/httpkit"
	str "autoscrum/internal/platform/strings"
	assigndom "autoscrum/internal/services/assign/domain"
	assignhttp "autoscrum/internal/services/assign/http"
	assignsvc "autoscrum/internal/services/assign/service"
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

	svc assignsvc.Service
}

// New constructs an assign module with the provided dependencies and options
// Board roster lookups are wired only when the jira adapter is enabled
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("assign"), modkit.WithPrefix("/assign")}, opts...)...)

	var roster assigndom.RosterPort
	if deps.Cfg.Prefix("ADAPTER_JIRA_").MayBool("ENABLED", false) {
		roster = boardRoster{client: jira.NewClient(jira.FromConfig(deps.Cfg))}
	}
	svc := assignsvc.New(roster)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPlannerPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		assignhttp.Register(r, m.svc)
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
