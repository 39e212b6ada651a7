package module

import (
	trendsdom "trendscope/internal/services/api/trends/domain"
)

// Ports is what the session module consumes; pass it with modkit.WithPorts
type Ports struct {
	Fetcher trendsdom.Fetcher
}

// Ports returns the module ports; the runner satisfies domain.ServicePort
func (m *Module) Ports() any { return m.ports }
