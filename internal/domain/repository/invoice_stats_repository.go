package repository

import (
	"context"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatsFilter selecciona las facturas de un flujo.
//   - PartyCustomer: facturas sin proveedor.
//   - PartySupplier: facturas sin cliente.
//
// From/To delimitan un rango semiabierto [From, To) sobre la fecha; nil = sin límite.
type StatsFilter struct {
	Party entity.Party
	From  *time.Time
	To    *time.Time
}

// MonthlyAggregate agregado crudo de un mes calendario (UTC).
type MonthlyAggregate struct {
	Month time.Time // día 1 a las 00:00 UTC
	Count int64
	Sum   decimal.Decimal
}

// InvoiceStatsRepository consultas de agregación de solo lectura sobre facturas.
type InvoiceStatsRepository interface {
	CountWhere(ctx context.Context, filter StatsFilter) (int64, error)
	// SumWhere devuelve NullDecimal inválido cuando no hay filas.
	SumWhere(ctx context.Context, filter StatsFilter) (decimal.NullDecimal, error)
	// GroupByMonth devuelve solo los meses con facturas, en orden ascendente.
	GroupByMonth(ctx context.Context, filter StatsFilter) ([]MonthlyAggregate, error)
}
