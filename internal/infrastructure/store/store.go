// Package store abre el almacenamiento configurado (DB_DRIVER) y expone sus repositorios.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

// Repositories agrupa los puertos de persistencia de la aplicación.
type Repositories struct {
	Customers repository.CustomerRepository
	Suppliers repository.SupplierRepository
	Invoices  repository.InvoiceRepository
	Stats     repository.InvoiceStatsRepository
	Users     repository.UserRepository
	Groups    repository.GroupRepository

	// Ping comprueba la conexión (health check).
	Ping  func(ctx context.Context) error
	Close func()
}

// Open conecta con el driver configurado. En postgres aplica las migraciones embebidas
// con golang-migrate; en sqlite, AutoMigrate.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		mig, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Uint("version", mig.Version).Bool("changed", mig.Changed).Msg("esquema postgres listo")
		return &Repositories{
			Customers: postgres.NewCustomerRepository(pool),
			Suppliers: postgres.NewSupplierRepository(pool),
			Invoices:  postgres.NewInvoiceRepository(pool),
			Stats:     postgres.NewInvoiceStatsRepository(pool),
			Users:     postgres.NewUserRepository(pool),
			Groups:    postgres.NewGroupRepository(pool),
			Ping:      pool.Ping,
			Close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("almacenamiento sqlite listo")
		return &Repositories{
			Customers: sqlite.NewCustomerRepository(db),
			Suppliers: sqlite.NewSupplierRepository(db),
			Invoices:  sqlite.NewInvoiceRepository(db),
			Stats:     sqlite.NewInvoiceStatsRepository(db),
			Users:     sqlite.NewUserRepository(db),
			Groups:    sqlite.NewGroupRepository(db),
			Ping:      sqlDB.PingContext,
			Close:     func() { _ = sqlDB.Close() },
		}, nil
	}
	return nil, fmt.Errorf("store: driver desconocido %q", cfg.Driver)
}
