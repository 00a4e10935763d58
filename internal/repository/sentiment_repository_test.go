package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"horizonfolio/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type execCall struct {
	sql  string
	args []any
}

type fakePool struct {
	execs    []execCall
	execErr  error
	rows     *fakeRows
	queryErr error
	queryArg []any
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execs = append(p.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), p.execErr
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.queryArg = args
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.rows, nil
}

type fakeRows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *float64:
			*p = row[i].(float64)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

func TestRunMigrationsCreatesTable(t *testing.T) {
	pool := &fakePool{}
	repo := NewSentimentRepository(pool, testTracer())

	if err := repo.RunMigrations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execs) != 1 || !strings.Contains(pool.execs[0].sql, "CREATE TABLE IF NOT EXISTS sentiment_readings") {
		t.Fatalf("unexpected exec calls: %+v", pool.execs)
	}
}

func TestRecordReadingIgnoresDuplicates(t *testing.T) {
	pool := &fakePool{}
	repo := NewSentimentRepository(pool, testTracer())
	fetchedAt := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)

	reading := domain.SentimentReading{
		Value:          72,
		Classification: "Greed",
		UpdateTime:     "2024-01-01T00:00:00Z",
		Source:         domain.SourceCoinMarketCap,
	}
	if err := repo.RecordReading(context.Background(), reading, fetchedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := pool.execs[0]
	if !strings.Contains(call.sql, "ON CONFLICT (source, update_time) DO NOTHING") {
		t.Fatalf("expected insert to skip duplicates, got %s", call.sql)
	}
	if call.args[0] != "coinmarketcap" || call.args[1] != "2024-01-01T00:00:00Z" || call.args[2] != 72.0 {
		t.Fatalf("unexpected args: %v", call.args)
	}
	if !call.args[4].(time.Time).Equal(fetchedAt) {
		t.Fatalf("unexpected fetched_at: %v", call.args[4])
	}
}

func TestRecordReadingPropagatesError(t *testing.T) {
	pool := &fakePool{execErr: errors.New("db down")}
	repo := NewSentimentRepository(pool, testTracer())

	if err := repo.RecordReading(context.Background(), domain.SentimentReading{}, time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecentReadings(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	rows := &fakeRows{data: [][]any{
		{"coinmarketcap", 72.0, "Greed", "2024-01-01T00:00:00Z", fetched},
		{"alternative.me", 40.0, "Fear", "2024-01-01T00:00:00Z", fetched.Add(-time.Hour)},
	}}
	pool := &fakePool{rows: rows}
	repo := NewSentimentRepository(pool, testTracer())

	entries, err := repo.RecentReadings(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Source != domain.SourceCoinMarketCap || entries[0].Value != 72 || entries[0].Classification != "Greed" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Source != domain.SourceAlternativeMe || !entries[1].FetchedAt.Equal(fetched.Add(-time.Hour)) {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if pool.queryArg[0] != 10 {
		t.Fatalf("expected limit to be passed through, got %v", pool.queryArg)
	}
	if !rows.closed {
		t.Fatal("rows should be closed")
	}
}

func TestRecentReadingsErrors(t *testing.T) {
	repo := NewSentimentRepository(&fakePool{queryErr: errors.New("boom")}, testTracer())
	if _, err := repo.RecentReadings(context.Background(), 5); err == nil {
		t.Fatal("expected query error")
	}

	repo = NewSentimentRepository(&fakePool{rows: &fakeRows{err: errors.New("stream broke")}}, testTracer())
	if _, err := repo.RecentReadings(context.Background(), 5); err == nil {
		t.Fatal("expected rows error")
	}
}
