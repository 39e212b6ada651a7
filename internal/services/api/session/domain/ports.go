package domain

import (
	"context"

	"trendscope/internal/core/session"
)

// ServicePort defines the session runner contract
type ServicePort interface {
	View() View
	Dispatch(a session.Action) (View, error)
	Submit(ctx context.Context, wait bool) (View, error)
	Wait(ctx context.Context) (View, error)
	Export() (filename, csv string, err error)
}
