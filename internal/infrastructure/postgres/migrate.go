package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// MigrationResult estado del esquema tras Migrate.
type MigrationResult struct {
	Version uint
	Changed bool // false = el esquema ya estaba al día
}

// Migrate aplica las migraciones embebidas con golang-migrate.
// El driver toma un advisory lock, así que varias réplicas pueden arrancar a la vez.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (MigrationResult, error) {
	m, err := newMigrator(pool)
	if err != nil {
		return MigrationResult{}, err
	}
	defer m.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	res := MigrationResult{Changed: true}
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return MigrationResult{}, fmt.Errorf("migrate: %w", err)
		}
		res.Changed = false
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("migrate: versión: %w", err)
	}
	if dirty {
		return res, fmt.Errorf("migrate: versión %d marcada como dirty", version)
	}
	res.Version = version
	return res, nil
}

// MigrateDown revierte todas las migraciones (tests de integración).
func MigrateDown(pool *pgxpool.Pool) error {
	m, err := newMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// newMigrator arma el migrador sobre el pool: el *sql.DB de stdlib presta conexiones
// del pool y cerrarlo no cierra el pool.
func newMigrator(pool *pgxpool.Pool) (*migrate.Migrate, error) {
	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrate: fuente: %w", err)
	}
	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(pool), &migratepgx.Config{})
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("migrate: driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}
