package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeConflict},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"40001", ErrorCodeDB},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"42P01", ErrorCodeDB},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("nil should pass through")
	}
	err := FromPostgresf(pg("57P03"), "insert outcome %s", "q1")
	if CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if e, _ := As(err); e.Message() != "insert outcome q1" {
		t.Fatalf("message = %q", e.Message())
	}
	if CodeOf(FromPostgres(stderrs.New("plain"), "x")) != ErrorCodeDB {
		t.Fatalf("plain errors should map to DB")
	}
	if !IsUndefinedTable(fmt.Errorf("wrap: %w", pg("42P01"))) {
		t.Fatalf("IsUndefinedTable should see through wrapping")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), false},
		{"serialization", pg("40001"), true},
		{"deadlock", Wrap(pg("40P01"), ErrorCodeDB, "x"), true},
		{"startup", pg("57P03"), true},
		{"unique", pg("23505"), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"other text", stderrs.New("boom"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
	}
	if !Retryable(pg("55P03")) {
		t.Fatalf("Retryable should delegate to IsRetryable")
	}
}
