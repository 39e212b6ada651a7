package store

import (
	"context"
	"errors"
)

// fakeRows serves canned values column by column
type fakeRows struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.data) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.i-1]
	if len(dest) != len(row) {
		return errors.New("scan arity")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = row[i].(int)
		case *string:
			*p = row[i].(string)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            { f.closed = true }
func (f *fakeRows) Columns() []string { return nil }

type fakeRow struct {
	v   any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.v.(int)
	return nil
}

type fakeQ struct {
	rows    *fakeRows
	row     fakeRow
	qErr    error
	pingErr error
	closed  bool
	lastSQL string
}

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.lastSQL = sql
	return nil, f.qErr
}

func (f *fakeQ) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.lastSQL = sql
	if f.qErr != nil {
		return nil, f.qErr
	}
	return f.rows, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, _ ...any) Row {
	f.lastSQL = sql
	return f.row
}

func (f *fakeQ) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(f) }
func (f *fakeQ) Ping(context.Context) error                            { return f.pingErr }
func (f *fakeQ) Close() error                                          { f.closed = true; return nil }
