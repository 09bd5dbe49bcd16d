// Package dbtest provides an in-memory database.DB for tests that only need
// to observe statements and feed back canned rows.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"govtjobs/internal/database"

	"github.com/jackc/pgx/v5"
)

type Call struct {
	Query string
	Args  []any
}

// FakeDB records every statement. The *Func hooks decide results; a nil hook
// yields zero rows affected, empty result sets and pgx.ErrNoRows.
type FakeDB struct {
	ExecFunc     func(query string, args []any) (int64, error)
	QueryFunc    func(query string, args []any) (database.Rows, error)
	QueryRowFunc func(query string, args []any) database.Row
	BeginErr     error

	mu        sync.Mutex
	Calls     []Call
	Commits   int
	Rollbacks int
}

func (f *FakeDB) record(query string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Query: query, Args: args})
}

// Recorded returns a copy of the statements seen so far.
func (f *FakeDB) Recorded() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.Calls))
	copy(out, f.Calls)
	return out
}

func (f *FakeDB) Ping(context.Context) error { return nil }
func (f *FakeDB) Close() error               { return nil }
func (f *FakeDB) SQLDB() *sql.DB             { return nil }

func (f *FakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.record(query, args)
	if f.ExecFunc == nil {
		return 0, nil
	}
	return f.ExecFunc(query, args)
}

func (f *FakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	f.record(query, args)
	if f.QueryFunc == nil {
		return &Rows{}, nil
	}
	return f.QueryFunc(query, args)
}

func (f *FakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	f.record(query, args)
	if f.QueryRowFunc == nil {
		return Row{Err: pgx.ErrNoRows}
	}
	return f.QueryRowFunc(query, args)
}

func (f *FakeDB) Begin(context.Context) (database.Tx, error) {
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	return &tx{db: f}, nil
}

type tx struct {
	db   *FakeDB
	done bool
}

func (t *tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}

func (t *tx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}

func (t *tx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}

func (t *tx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Commits++
	t.db.mu.Unlock()
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Rollbacks++
	t.db.mu.Unlock()
	return nil
}

// Rows iterates over Data; each inner slice is one row in column order.
type Rows struct {
	Data    [][]any
	IterErr error

	pos int
}

func NewRows(data ...[]any) *Rows { return &Rows{Data: data} }

func (r *Rows) Close() {}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Data) {
		return errors.New("scan called without a current row")
	}
	return assign(r.Data[r.pos-1], dest)
}

func (r *Rows) Err() error { return r.IterErr }

type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
			target.Set(v)
		case isNumeric(v.Kind()) && isNumeric(target.Kind()):
			target.Set(v.Convert(target.Type()))
		case target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v)
			target.Set(p)
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", values[i], target.Type())
		}
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
