package db

import (
	"context"

	"horizonfolio/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var (
	newPool = pgxpool.New
	pingDB  = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

// InitPostgres opens Pool for dsn. An empty dsn leaves Pool nil.
func InitPostgres(ctx context.Context, dsn string) {
	log := logger.WithComponent("db")
	if dsn == "" {
		return
	}

	pool, err := newPool(ctx, dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to create Postgres pool")
	}
	if err := pingDB(ctx, pool); err != nil {
		log.WithError(err).Fatal("failed to connect to Postgres")
	}
	Pool = pool
	log.Info("connected to Postgres")
}

// Close releases Pool if it was opened.
func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
