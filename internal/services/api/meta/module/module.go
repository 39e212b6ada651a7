// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"trendscope/internal/core/version"
	modkit "trendscope/internal/modkit"
	"trendscope/internal/modkit/httpkit"

	metahttp "trendscope/internal/services/api/meta/http"
)

// Ports is what the meta module consumes; all fields are optional
type Ports struct {
	Source metahttp.Readier
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module. Routes mount at the API root unless WithPrefix says otherwise
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)
	in, _ := b.Ports.(Ports)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: deps.ClockOrSystem().Now(),
	}

	hd := metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   m.startedAt,
		Clock:       deps.ClockOrSystem(),
		PG:          deps.PG,
		Source:      in.Source,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, hd)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	}
	if m.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(m.prefix, mount)
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Prefix implements the modkit.Module interface; empty means the API root
func (m *Module) Prefix() string { return m.prefix }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
