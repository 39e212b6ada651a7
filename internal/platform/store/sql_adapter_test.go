package store

import (
	"context"
	"errors"
	"testing"

	"trendscope/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type recTracer struct{ evs []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.evs = append(r.evs, ev) }

type stubRow struct{ err error }

func (s stubRow) Scan(...any) error { return s.err }

type stubPgx struct{ err error }

func (s stubPgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), s.err
}
func (s stubPgx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, s.err }
func (s stubPgx) QueryRow(context.Context, string, ...any) pgx.Row        { return stubRow{s.err} }

func TestTraced_EmitsPerStatement(t *testing.T) {
	rec := &recTracer{}
	tr := traced{q: stubPgx{}, tracer: rec, slowUS: 0}

	ct, err := tr.Exec(context.Background(), "insert", 1)
	if err != nil || ct.RowsAffected() != 1 {
		t.Fatalf("exec = %v, %v", ct, err)
	}
	if err := tr.QueryRow(context.Background(), "select").Scan(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(rec.evs) != 2 || rec.evs[0].SQL != "insert" || rec.evs[1].SQL != "select" {
		t.Fatalf("events = %+v", rec.evs)
	}
	if !rec.evs[0].Slow {
		t.Fatalf("slowUS=0 should mark every statement slow")
	}
}

func TestTraced_QueryErrorAndNoTracer(t *testing.T) {
	boom := errors.New("boom")
	rec := &recTracer{}
	tr := traced{q: stubPgx{err: boom}, tracer: rec, slowUS: -1}
	if _, err := tr.Query(context.Background(), "select"); !errors.Is(err, boom) {
		t.Fatalf("query err = %v", err)
	}
	if len(rec.evs) != 1 || rec.evs[0].Err != boom || rec.evs[0].Slow {
		t.Fatalf("events = %+v", rec.evs)
	}

	quiet := traced{q: stubPgx{}}
	if _, err := quiet.Exec(context.Background(), "x"); err != nil {
		t.Fatalf("exec without tracer: %v", err)
	}
}
