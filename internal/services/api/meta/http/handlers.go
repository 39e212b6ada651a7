// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"trendscope/internal/core/version"
	"trendscope/internal/modkit/httpkit"
	ptime "trendscope/internal/platform/time"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Readier is satisfied by the trend source client
type Readier interface {
	Ready() bool
	Model() string
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Clock       ptime.Clock

	// PG is optional; a nil PG reports the journal as skipped
	PG     any
	Source Readier
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = ptime.System{}
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"trendscope-api"`
	Started string `json:"started"  example:"2026-01-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-01-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"source"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Detail string `json:"detail,omitempty" example:"gemini-3-flash-preview"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"trendscope-api"`
	Started string `json:"started" example:"2026-01-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// swagger:route GET /health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Clock.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /ready Meta metaReady
// @Summary Readiness with trend source and journal checks
// @Description degraded means queries will fail (no API key) or the journal is unreachable
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	source := ReadyCheck{Name: "source", Status: "unknown"}
	if s := h.deps.Source; s != nil {
		source.Detail = s.Model()
		source.Status = "ok"
		if !s.Ready() {
			source.Status = "fail"
			source.Error = "no API key configured"
		}
	}

	pg := ReadyCheck{Name: "journal", Status: "skipped"}
	if h.deps.PG != nil {
		pg.Status = "unknown"
		if p, ok := h.deps.PG.(Pinger); ok {
			pg.Status = "ok"
			if err := p.Ping(ctx); err != nil {
				pg.Status, pg.Error = "fail", err.Error()
			}
		}
	}

	overall := "ok"
	if source.Status != "ok" || pg.Status == "fail" {
		overall = "degraded"
	}
	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{source, pg},
		Now:    h.deps.Clock.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := ptime.Since(h.deps.Clock, h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
