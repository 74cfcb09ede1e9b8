package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"assistify/internal/platform/store/pg"
)

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

type fakePgxRows struct {
	pgx.Rows
	n    int
	cols []string
}

func (r *fakePgxRows) Next() bool { r.n--; return r.n >= 0 }
func (r *fakePgxRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i].Name = c
	}
	return out
}

type scanErrRow struct{ err error }

func (r scanErrRow) Scan(...any) error { return r.err }

type fakePgx struct {
	execErr  error
	queryErr error
	rowErr   error
	rows     *fakePgxRows
}

func (f fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("DELETE 2"), f.execErr
}

func (f fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f fakePgx) QueryRow(context.Context, string, ...any) pgx.Row { return scanErrRow{f.rowErr} }

func TestTraced_ReportsEveryStatement(t *testing.T) {
	t.Parallel()

	tr := &recTracer{}
	noRows := errors.New("no rows")
	q := traced{
		q:      fakePgx{rowErr: noRows, rows: &fakePgxRows{n: 1, cols: []string{"token", "at"}}},
		tracer: tr,
		slow:   0,
	}
	ctx := context.Background()

	tag, err := q.Exec(ctx, "DELETE FROM t", 1)
	if err != nil || tag.RowsAffected() != 2 {
		t.Fatalf("Exec: %v rows=%v", err, tag)
	}

	rows, err := q.Query(ctx, "SELECT token, at FROM t")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(rows.Columns(), []string{"token", "at"}) {
		t.Fatalf("columns %v", rows.Columns())
	}
	if !rows.Next() || rows.Next() {
		t.Fatal("want exactly one row")
	}

	if err := q.QueryRow(ctx, "SELECT 1").Scan(new(int)); !errors.Is(err, noRows) {
		t.Fatalf("scan err %v", err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("events %d want 3", len(tr.events))
	}
	first := tr.events[0]
	if first.SQL != "DELETE FROM t" || !reflect.DeepEqual(first.Args, []any{1}) || !first.Slow {
		t.Fatalf("first event %+v", first)
	}
	if !errors.Is(tr.events[2].Err, noRows) {
		t.Fatalf("QueryRow event err %v", tr.events[2].Err)
	}
}

func TestTraced_PropagatesErrorsAndHonoursSlowThreshold(t *testing.T) {
	t.Parallel()

	tr := &recTracer{}
	boom := errors.New("boom")
	q := traced{q: fakePgx{execErr: boom, queryErr: boom}, tracer: tr, slow: time.Hour}

	if _, err := q.Exec(context.Background(), "UPDATE t"); !errors.Is(err, boom) {
		t.Fatalf("Exec err %v", err)
	}
	rows, err := q.Query(context.Background(), "SELECT 1")
	if !errors.Is(err, boom) || rows != nil {
		t.Fatalf("Query: %v %v", rows, err)
	}

	if len(tr.events) != 2 {
		t.Fatalf("events %d want 2", len(tr.events))
	}
	for _, ev := range tr.events {
		if ev.Slow || !errors.Is(ev.Err, boom) {
			t.Fatalf("event %+v", ev)
		}
	}
}

func TestTraced_NoTracerIsSilent(t *testing.T) {
	t.Parallel()
	q := traced{q: fakePgx{}}
	if _, err := q.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := q.QueryRow(context.Background(), "SELECT 1").Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
}
