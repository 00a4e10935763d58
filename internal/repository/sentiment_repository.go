package repository

import (
	"context"
	"time"

	"horizonfolio/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const createSentimentReadingsTable = `
CREATE TABLE IF NOT EXISTS sentiment_readings (
    source          TEXT             NOT NULL,
    update_time     TEXT             NOT NULL,
    value           DOUBLE PRECISION NOT NULL,
    classification  TEXT             NOT NULL DEFAULT '',
    fetched_at      TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
    PRIMARY KEY (source, update_time)
);

CREATE INDEX IF NOT EXISTS idx_sentiment_readings_fetched_at
    ON sentiment_readings (fetched_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SentimentRepository keeps the history of readings fetched from providers.
// Readings are immutable, so a repeated (source, update_time) is ignored.
type SentimentRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSentimentRepository(pool PgxPool, tracer trace.Tracer) *SentimentRepository {
	return &SentimentRepository{pool: pool, tracer: tracer}
}

func (r *SentimentRepository) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "sentiment-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createSentimentReadingsTable)
	return err
}

func (r *SentimentRepository) RecordReading(ctx context.Context, reading domain.SentimentReading, fetchedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "sentiment-repo.record-reading")
	defer span.End()
	span.SetAttributes(attribute.String("source", string(reading.Source)))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO sentiment_readings (source, update_time, value, classification, fetched_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (source, update_time) DO NOTHING`,
		string(reading.Source), reading.UpdateTime, reading.Value, reading.Classification, fetchedAt,
	)
	return err
}

func (r *SentimentRepository) RecentReadings(ctx context.Context, limit int) ([]domain.SentimentHistoryEntry, error) {
	ctx, span := r.tracer.Start(ctx, "sentiment-repo.recent-readings")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT source, value, classification, update_time, fetched_at
		 FROM sentiment_readings
		 ORDER BY fetched_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.SentimentHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e      domain.SentimentHistoryEntry
			source string
		)
		if err := rows.Scan(&source, &e.Value, &e.Classification, &e.UpdateTime, &e.FetchedAt); err != nil {
			return nil, err
		}
		e.Source = domain.SentimentSource(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
