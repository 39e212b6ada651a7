// Package repo provides postgres access for the query outcome journal
package repo

import (
	"context"
	"time"

	"trendscope/internal/modkit/repokit"
	"trendscope/internal/platform/store"
	pstrings "trendscope/internal/platform/strings"
)

// Repo defines the repository contract for the journal
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, r RowOutcome) error
	Recent(ctx context.Context, limit int) ([]RowOutcome, error)
}

// RowOutcome is one trend_query_outcomes row
type RowOutcome struct {
	QueryID     string
	Mode        string
	Tags        []string
	StartYear   int
	EndYear     int
	Outcome     string
	SeriesCount int
	DurationMs  int64
	Error       string
	CreatedAt   time.Time
}

// MaxErrorLen caps the stored error text
const MaxErrorLen = 500

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) EnsureSchema(ctx context.Context) error {
	const sql = `
create table if not exists trend_query_outcomes (
	query_id     uuid primary key,
	mode         text not null,
	tags         text[] not null default '{}',
	start_year   int not null,
	end_year     int not null,
	outcome      text not null,
	series_count int not null default 0,
	duration_ms  int not null default 0,
	error        text,
	created_at   timestamptz not null default now()
);
create index if not exists trend_query_outcomes_created_idx on trend_query_outcomes (created_at desc);
`
	_, err := r.q.Exec(ctx, sql)
	return err
}

func (r *queries) Insert(ctx context.Context, o RowOutcome) error {
	const sql = `
insert into trend_query_outcomes
	(query_id, mode, tags, start_year, end_year, outcome, series_count, duration_ms, error, created_at)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
on conflict (query_id) do nothing
`
	tags := o.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.q.Exec(ctx, sql,
		o.QueryID, o.Mode, tags, o.StartYear, o.EndYear, o.Outcome,
		o.SeriesCount, o.DurationMs, pstrings.SQLNull(pstrings.Truncate(o.Error, MaxErrorLen)), o.CreatedAt,
	)
	return err
}

func (r *queries) Recent(ctx context.Context, limit int) ([]RowOutcome, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const sql = `
select query_id::text, mode, tags, start_year, end_year, outcome, series_count, duration_ms,
coalesce(error, ''), created_at
from trend_query_outcomes
order by created_at desc
limit $1
`
	return store.Many(ctx, r.q, scanOutcome, sql, limit)
}

func scanOutcome(row store.Row) (RowOutcome, error) {
	var o RowOutcome
	err := row.Scan(
		&o.QueryID,
		&o.Mode,
		&o.Tags,
		&o.StartYear,
		&o.EndYear,
		&o.Outcome,
		&o.SeriesCount,
		&o.DurationMs,
		&o.Error,
		&o.CreatedAt,
	)
	return o, err
}
