// Package module wires the dashboard session into the API using modkit
package module

import (
	"net/http"
	"time"

	"trendscope/internal/core/session"
	"trendscope/internal/core/trend"
	modkit "trendscope/internal/modkit"
	"trendscope/internal/modkit/httpkit"
	str "trendscope/internal/platform/strings"
	sessionhttp "trendscope/internal/services/api/session/http"
	sessionsvc "trendscope/internal/services/api/session/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	runner *sessionsvc.Runner
}

// New constructs the session module. The trends Fetcher arrives through modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("session"), modkit.WithPrefix("/session")}, opts...)...)

	in, ok := b.Ports.(Ports)
	if !ok || in.Fetcher == nil {
		panic("session module requires Ports{Fetcher} via modkit.WithPorts")
	}

	cfg := deps.Cfg.Prefix("DASHBOARD_")
	runner := sessionsvc.New(deps.BaseOrBackground(), in.Fetcher, sessionsvc.Options{
		Bounds: session.Bounds{
			MinYear: cfg.MayInt("MIN_YEAR", session.DefaultBounds.MinYear),
			MaxYear: cfg.MayInt("MAX_YEAR", session.DefaultBounds.MaxYear),
		},
		Initial: trend.YearRange{
			Start: cfg.MayInt("DEFAULT_START", session.DefaultRange.Start),
			End:   cfg.MayInt("DEFAULT_END", session.DefaultRange.End),
		},
		FetchTimeout: cfg.MayDuration("FETCH_TIMEOUT", 90*time.Second),
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		runner:    runner,
	}
	m.ports = runner

	external := b.Register
	m.register = func(r httpkit.Router) {
		sessionhttp.Register(r, m.runner)
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
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Close waits for an in-flight fetch to settle
func (m *Module) Close() { m.runner.Close() }
