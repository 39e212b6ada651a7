// Package modkit provides module wiring and core deps
package modkit

import (
	"context"

	"trendscope/internal/modkit/repokit"
	"trendscope/internal/platform/config"
	"trendscope/internal/platform/logger"
	ptime "trendscope/internal/platform/time"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is nil when no database is configured; modules fall back to in-memory behavior
	PG repokit.TxRunner

	// Clock stamps query outcomes and session timestamps
	Clock ptime.Clock

	// Base is canceled at shutdown; background work started by modules derives from it
	Base context.Context
}

// ClockOrSystem returns Clock, or the wall clock when unset
func (d Deps) ClockOrSystem() ptime.Clock {
	if d.Clock == nil {
		return ptime.System{}
	}
	return d.Clock
}

// BaseOrBackground returns Base, or context.Background when unset
func (d Deps) BaseOrBackground() context.Context {
	if d.Base == nil {
		return context.Background()
	}
	return d.Base
}
