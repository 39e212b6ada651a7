package module

import (
	"context"

	"trendscope/internal/core/trend"
	"trendscope/internal/services/api/trends/domain"
	trendssvc "trendscope/internal/services/api/trends/service"
)

// Ports is what the trends module consumes; pass it with modkit.WithPorts
type Ports struct {
	Generator domain.Generator

	// Journal overrides the pg or no-op journal chosen from deps
	Journal domain.Journal
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptTrendsPort exposes the query path to other modules
type adaptTrendsPort struct{ svc trendssvc.Service }

// Fetch implements domain.Fetcher
func (a adaptTrendsPort) Fetch(ctx context.Context, tags []string, r trend.YearRange, mode trend.LogicMode) (domain.QueryResult, error) {
	return a.svc.Fetch(ctx, tags, r, mode)
}
