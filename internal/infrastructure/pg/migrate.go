package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"pricerelay-service/internal/infrastructure/logx"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	pgdriver "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type pinger interface {
	PingContext(ctx context.Context) error
}

// schemaMigrator is the part of *migrate.Migrate that applyUp drives.
type schemaMigrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
}

func readinessBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = 15 * time.Second
	return exp
}

// waitReady pings db until it answers, b gives up, or ctx ends.
func waitReady(ctx context.Context, db pinger, b backoff.BackOff) error {
	op := func() error { return db.PingContext(ctx) }
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func applyUp(m schemaMigrator, log *zap.Logger) error {
	err := m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		v, _, _ := m.Version()
		log.Info("migrate.up_to_date", zap.Uint("version", v))
		return nil
	case err != nil:
		return fmt.Errorf("migrate up: %w", err)
	}
	v, dirty, verr := m.Version()
	if verr != nil {
		return fmt.Errorf("migrate version: %w", verr)
	}
	log.Info("migrate.applied", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}

// RunMigrations applies the embedded schema migrations to db.
func RunMigrations(ctx context.Context, db *DB) error {
	log := logx.WithFields(ctx)
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migrate src: %w", err)
	}
	sqldb, err := sql.Open("pgx", db.Pool.Config().ConnString())
	if err != nil {
		return fmt.Errorf("open sql db: %w", err)
	}
	defer sqldb.Close()

	log.Info("migrate.start")
	if err := waitReady(ctx, sqldb, readinessBackOff()); err != nil {
		return err
	}
	driver, err := pgdriver.WithInstance(sqldb, &pgdriver.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	return applyUp(m, log)
}
