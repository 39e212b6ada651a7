// Package module wires trend queries into the API using modkit
package module

import (
	"net/http"
	"time"

	"trendscope/internal/core/session"
	"trendscope/internal/core/trend"
	modkit "trendscope/internal/modkit"
	"trendscope/internal/modkit/httpkit"
	str "trendscope/internal/platform/strings"
	trendshttp "trendscope/internal/services/api/trends/http"
	trendsrepo "trendscope/internal/services/api/trends/repo"
	trendssvc "trendscope/internal/services/api/trends/service"
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

	svc trendssvc.Service
}

// New constructs the trends module. The Generator arrives through modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("trends"), modkit.WithPrefix("/trends")}, opts...)...)

	in, ok := b.Ports.(Ports)
	if !ok || in.Generator == nil {
		panic("trends module requires Ports{Generator} via modkit.WithPorts")
	}

	cfg := deps.Cfg.Prefix("DASHBOARD_")
	bounds := session.Bounds{
		MinYear: cfg.MayInt("MIN_YEAR", session.DefaultBounds.MinYear),
		MaxYear: cfg.MayInt("MAX_YEAR", session.DefaultBounds.MaxYear),
	}
	def := trend.YearRange{
		Start: cfg.MayInt("DEFAULT_START", session.DefaultRange.Start),
		End:   cfg.MayInt("DEFAULT_END", session.DefaultRange.End),
	}

	journal := in.Journal
	if journal == nil {
		timeout := deps.Cfg.Prefix("SERVICE_PGSQL_").MayDuration("JOURNAL_TIMEOUT", 2*time.Second)
		journal = trendssvc.NewJournal(deps.PG, trendsrepo.NewPG(), timeout)
	}
	svc := trendssvc.New(in.Generator, journal, deps.ClockOrSystem(), trendssvc.Options{
		Bounds:       bounds,
		DefaultRange: def,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTrendsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		trendshttp.Register(r, m.svc)
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
