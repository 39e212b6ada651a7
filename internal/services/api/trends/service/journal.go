package service

import (
	"context"
	"sync"
	"time"

	"trendscope/internal/modkit/repokit"
	perr "trendscope/internal/platform/errors"
	"trendscope/internal/services/api/trends/domain"
	"trendscope/internal/services/api/trends/repo"
)

// NewJournal returns the pg backed journal, or a no-op one when db is nil
// every statement runs with statementTimeout
func NewJournal(db repokit.TxRunner, binder repokit.Binder[repo.Repo], statementTimeout time.Duration) domain.Journal {
	if db == nil {
		return NopJournal{}
	}
	if binder == nil {
		panic("trends.Journal requires a non nil Repo binder")
	}
	return &pgJournal{
		db:     repokit.WithBeginHooks(db, repokit.StatementTimeout(statementTimeout)),
		binder: binder,
	}
}

// NopJournal drops every entry
type NopJournal struct{}

// Record implements domain.Journal
func (NopJournal) Record(context.Context, domain.Outcome) error { return nil }

// Recent implements domain.Journal
func (NopJournal) Recent(context.Context, int) ([]domain.Outcome, error) { return []domain.Outcome{}, nil }

type pgJournal struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]

	mu    sync.Mutex
	ready bool
}

// ensure creates the table once in its own tx; a failed attempt is retried on the next call
func (j *pgJournal) ensure(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ready {
		return nil
	}
	err := repokit.InTx(ctx, j.db, j.binder, func(r repo.Repo) error {
		return r.EnsureSchema(ctx)
	})
	if err != nil {
		return perr.FromPostgres(err, "journal schema")
	}
	j.ready = true
	return nil
}

func (j *pgJournal) Record(ctx context.Context, o domain.Outcome) error {
	if err := j.ensure(ctx); err != nil {
		return err
	}
	return repokit.InTx(ctx, j.db, j.binder, func(r repo.Repo) error {
		return perr.FromPostgres(r.Insert(ctx, repo.RowOutcome{
			QueryID:     o.QueryID,
			Mode:        o.Mode,
			Tags:        o.Tags,
			StartYear:   o.StartYear,
			EndYear:     o.EndYear,
			Outcome:     o.Outcome,
			SeriesCount: o.SeriesCount,
			DurationMs:  o.DurationMs,
			Error:       o.Error,
			CreatedAt:   o.CreatedAt,
		}), "journal insert")
	})
}

func (j *pgJournal) Recent(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if err := j.ensure(ctx); err != nil {
		return nil, err
	}
	var rows []repo.RowOutcome
	err := repokit.InTx(ctx, j.db, j.binder, func(r repo.Repo) error {
		var err error
		rows, err = r.Recent(ctx, limit)
		return perr.FromPostgres(err, "journal recent")
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Outcome, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Outcome{
			QueryID:     r.QueryID,
			Mode:        r.Mode,
			Tags:        r.Tags,
			StartYear:   r.StartYear,
			EndYear:     r.EndYear,
			Outcome:     r.Outcome,
			SeriesCount: r.SeriesCount,
			DurationMs:  r.DurationMs,
			Error:       r.Error,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}
