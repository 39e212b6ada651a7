// Package pg opens the pgx pool behind the outcome journal
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL         string
	AppName     string // application_name in pg_stat_activity
	MaxConns    int32
	IdleTimeout time.Duration
	SlowMs      int
}

// PG owns the pool plus the tracer settings openers read back
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// poolConfig turns cfg into a pgxpool config; zero values keep pgx defaults
func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.IdleTimeout > 0 {
		pc.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.AppName != "" {
		params := pc.ConnConfig.RuntimeParams
		if params == nil {
			params = make(map[string]string, 1)
			pc.ConnConfig.RuntimeParams = params
		}
		params["application_name"] = cfg.AppName
	}
	return pc, nil
}

// Open builds the pool; tune, when set, sees the final config. pgxpool connects lazily
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	if tune != nil {
		tune(pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close releases the pool; safe on nil
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
