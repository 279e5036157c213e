// Package module wires transcript triage into the API using modkit
package module

import (
	"net/http"

	"autoscrum/internal/adapters/jira"
	"autoscrum/internal/adapters/servicenow"
	modkit "autoscrum/internal/modkit"
	"autoscrum/internal/modkit/httpkit"
	str "autoscrum/internal/platform/strings"
	triagedom "autoscrum/internal/services/triage/domain"
	triagehttp "autoscrum/internal/services/triage/http"
	triagerepo "autoscrum/internal/services/triage/repo"
	triagesvc "autoscrum/internal/services/triage/service"
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

	svc triagesvc.Service
}

// New constructs a triage module with the provided dependencies and options.
// Ticket dispatchers are wired only when their adapters are enabled;
// decisions are still recorded without them
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("triage"), modkit.WithPrefix("/triage")}, opts...)...)

	var incidents triagedom.Incidents
	if deps.Cfg.Prefix("ADAPTER_SERVICENOW_").MayBool("ENABLED", false) {
		incidents = incidentDispatch{client: servicenow.NewClient(servicenow.FromConfig(deps.Cfg))}
	}
	var issues triagedom.Issues
	if deps.Cfg.Prefix("ADAPTER_JIRA_").MayBool("ENABLED", false) {
		issues = issueDispatch{client: jira.NewClient(jira.FromConfig(deps.Cfg))}
	}

	svc := triagesvc.New(deps.PG, triagerepo.NewPG(), triagerepo.NewAnalyses(deps.KV), incidents, issues)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTriagePort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		triagehttp.Register(r, m.svc)
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
