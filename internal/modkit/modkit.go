package modkit

import (
	"net/http"

	phttp "trendscope/internal/platform/net/http"
)

// Module is the surface every API module exposes: routes, a port bundle for cross wiring, a name
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

// Option adjusts how a module is built
type Option func(*Built)

// Built is what modules read back from Build
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Ports carries what the module consumes, set by WithPorts
	Ports any

	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts in order. Hooks default to identity and no-op
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	if b.Subrouter == nil {
		b.Subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	return b
}

// WithName sets the name used in logs and the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands the module what it consumes; the concrete type belongs to the receiving module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(b *Built) { b.Register = fn } }
