package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"horizonfolio/internal/config"
	"horizonfolio/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	cmdUp      = "up"
	cmdDown    = "down"
	cmdVersion = "version"
	cmdStatus  = "status"
	usage      = "usage: go run ./cmd/migrate [up|down|version|status] [steps]"

	migrationsTable = "horizonfolio_migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

// migrationDB is what the runner needs from a pool. *pgxpool.Pool satisfies it.
type migrationDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var migrationFilePattern = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

type command struct {
	Name  string
	Steps int
}

func main() {
	loadEnvFunc()
	logger.Init()
	log := logger.WithComponent("migrate")

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		log.WithError(err).Fatal("load migrations")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect to postgres")
	}
	defer pool.Close()

	if err := ensureMigrationTable(ctx, pool); err != nil {
		log.WithError(err).Fatal("ensure migrations table")
	}

	switch cmd.Name {
	case cmdUp:
		applied, err := applyUp(ctx, pool, migrations)
		if err != nil {
			log.WithError(err).Fatal("apply migrations up")
		}
		log.WithField("applied", applied).Info("migrations up complete")
	case cmdDown:
		rolledBack, err := applyDown(ctx, pool, migrations, cmd.Steps)
		if err != nil {
			log.WithError(err).Fatal("apply migrations down")
		}
		log.WithField("rolled_back", rolledBack).Info("migrations down complete")
	case cmdVersion:
		applied, err := loadAppliedVersions(ctx, pool)
		if err != nil {
			log.WithError(err).Fatal("read applied versions")
		}
		m, ok := latestApplied(migrations, applied)
		if !ok {
			log.Info("no migrations applied")
			return
		}
		log.WithField("version", m.Version).WithField("name", m.Name).Info("current version")
	case cmdStatus:
		applied, err := loadAppliedVersions(ctx, pool)
		if err != nil {
			log.WithError(err).Fatal("read applied versions")
		}
		for _, st := range migrationStatus(migrations, applied) {
			log.WithField("version", st.Version).WithField("name", st.Name).WithField("applied", st.Applied).Info("migration")
		}
	}
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New(usage)
	}

	switch args[0] {
	case cmdUp, cmdVersion, cmdStatus:
		return command{Name: args[0]}, nil
	case cmdDown:
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return command{}, fmt.Errorf("invalid down steps: %q", args[1])
			}
			steps = n
		}
		return command{Name: cmdDown, Steps: steps}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
}

func ensureMigrationTable(ctx context.Context, db migrationDB) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`)
	return err
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files found")
	}

	index := make(map[int64]*migration)
	for _, p := range paths {
		matches := migrationFilePattern.FindStringSubmatch(p)
		if matches == nil {
			return nil, fmt.Errorf("invalid migration filename: %s", p)
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", p, err)
		}
		name, direction := matches[2], matches[3]

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		sqlText := strings.TrimSpace(string(raw))
		if sqlText == "" {
			return nil, fmt.Errorf("empty migration file: %s", p)
		}

		m, ok := index[version]
		if !ok {
			m = &migration{Version: version, Name: name}
			index[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("conflicting names for version %d: %s vs %s", version, m.Name, name)
		}

		target := &m.UpSQL
		if direction == "down" {
			target = &m.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", direction, version)
		}
		*target = sqlText
	}

	migrations := make([]migration, 0, len(index))
	for _, m := range index {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration version %d must include both up and down files", m.Version)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// pendingMigrations keeps the order of migrations and drops the applied ones.
func pendingMigrations(migrations []migration, applied map[int64]struct{}) []migration {
	pending := make([]migration, 0, len(migrations))
	for _, m := range migrations {
		if _, ok := applied[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}

// rollbackPlan returns up to steps applied migrations, newest first. Every
// applied version must still have its source files.
func rollbackPlan(migrations []migration, applied map[int64]struct{}, steps int) ([]migration, error) {
	if steps <= 0 {
		return nil, errors.New("steps must be > 0")
	}

	known := make(map[int64]bool, len(migrations))
	for _, m := range migrations {
		known[m.Version] = true
	}
	for v := range applied {
		if !known[v] {
			return nil, fmt.Errorf("cannot find migration source for applied version %d", v)
		}
	}

	plan := make([]migration, 0, steps)
	for i := len(migrations) - 1; i >= 0 && len(plan) < steps; i-- {
		if _, ok := applied[migrations[i].Version]; ok {
			plan = append(plan, migrations[i])
		}
	}
	return plan, nil
}

func latestApplied(migrations []migration, applied map[int64]struct{}) (migration, bool) {
	for i := len(migrations) - 1; i >= 0; i-- {
		if _, ok := applied[migrations[i].Version]; ok {
			return migrations[i], true
		}
	}
	return migration{}, false
}

type status struct {
	Version int64
	Name    string
	Applied bool
}

func migrationStatus(migrations []migration, applied map[int64]struct{}) []status {
	out := make([]status, len(migrations))
	for i, m := range migrations {
		_, ok := applied[m.Version]
		out[i] = status{Version: m.Version, Name: m.Name, Applied: ok}
	}
	return out
}

func loadAppliedVersions(ctx context.Context, db migrationDB) (map[int64]struct{}, error) {
	rows, err := db.Query(ctx, `SELECT version FROM `+migrationsTable)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}

	applied := make(map[int64]struct{}, len(versions))
	for _, v := range versions {
		applied[v] = struct{}{}
	}
	return applied, nil
}

// step runs one migration body and its bookkeeping statement in a single transaction.
func step(ctx context.Context, db migrationDB, body, bookkeeping string, args ...any) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, bookkeeping, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyUp(ctx context.Context, db migrationDB, migrations []migration) (int, error) {
	applied, err := loadAppliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range pendingMigrations(migrations, applied) {
		insert := `INSERT INTO ` + migrationsTable + ` (version, name) VALUES ($1, $2)`
		if err := step(ctx, db, m.UpSQL, insert, m.Version, m.Name); err != nil {
			return count, fmt.Errorf("migration %d_%s up: %w", m.Version, m.Name, err)
		}
		count++
	}
	return count, nil
}

func applyDown(ctx context.Context, db migrationDB, migrations []migration, steps int) (int, error) {
	applied, err := loadAppliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	plan, err := rollbackPlan(migrations, applied, steps)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range plan {
		remove := `DELETE FROM ` + migrationsTable + ` WHERE version = $1`
		if err := step(ctx, db, m.DownSQL, remove, m.Version); err != nil {
			return count, fmt.Errorf("migration %d_%s down: %w", m.Version, m.Name, err)
		}
		count++
	}
	return count, nil
}
