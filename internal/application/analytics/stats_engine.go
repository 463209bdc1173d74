// Package analytics contiene el motor de agregación sobre facturas y el caso de
// uso del Dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// avgPlaces decimales del promedio mensual (misma escala que los montos).
const avgPlaces = entity.AmountDecimalPlaces

// PartyStats acumulado histórico de un flujo. Sum no es válido si Count == 0.
type PartyStats struct {
	Count int64
	Sum   decimal.NullDecimal
}

// MonthStats métricas de un mes calendario.
type MonthStats struct {
	Month time.Time // día 1 a las 00:00 UTC
	Count int64
	Sum   decimal.Decimal
	Avg   decimal.Decimal
}

// Key devuelve el identificador "MM-YYYY" del mes.
func (m MonthStats) Key() string {
	return m.Month.Format("01-2006")
}

// StatsEngine deriva estadísticas de facturas sin modificarlas.
// Cada consulta filtra por un solo flujo: cobros y pagos nunca se mezclan.
type StatsEngine struct {
	repo repository.InvoiceStatsRepository
}

// NewStatsEngine construye el motor sobre el puerto de agregación.
func NewStatsEngine(repo repository.InvoiceStatsRepository) *StatsEngine {
	return &StatsEngine{repo: repo}
}

// AlltimeStats devuelve conteo y suma históricos del flujo indicado.
func (e *StatsEngine) AlltimeStats(ctx context.Context, party entity.Party) (PartyStats, error) {
	filter := repository.StatsFilter{Party: party}

	count, err := e.repo.CountWhere(ctx, filter)
	if err != nil {
		return PartyStats{}, fmt.Errorf("stats %s: count: %w", party, err)
	}
	if count == 0 {
		// Sin filas que sumar.
		return PartyStats{}, nil
	}
	sum, err := e.repo.SumWhere(ctx, filter)
	if err != nil {
		return PartyStats{}, fmt.Errorf("stats %s: sum: %w", party, err)
	}
	return PartyStats{Count: count, Sum: sum}, nil
}

// MonthlyStats agrupa por mes las facturas del flujo dentro del año indicado (UTC).
// Los meses sin facturas no aparecen; el orden es ascendente.
func (e *StatsEngine) MonthlyStats(ctx context.Context, party entity.Party, year int) ([]MonthStats, error) {
	from, to := yearRange(year)
	rows, err := e.repo.GroupByMonth(ctx, repository.StatsFilter{Party: party, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("stats %s: monthly %d: %w", party, year, err)
	}

	out := make([]MonthStats, 0, len(rows))
	for _, r := range rows {
		if r.Count == 0 {
			continue
		}
		out = append(out, MonthStats{
			Month: r.Month.UTC(),
			Count: r.Count,
			Sum:   r.Sum,
			Avg:   r.Sum.Div(decimal.NewFromInt(r.Count)).Round(avgPlaces),
		})
	}
	return out, nil
}

// Profit devuelve suma de clientes menos suma de proveedores.
// Una suma nula (sin facturas) cuenta como cero.
func Profit(customers, suppliers PartyStats) decimal.Decimal {
	return orZero(customers.Sum).Sub(orZero(suppliers.Sum))
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// yearRange devuelve [1 ene year, 1 ene year+1) en UTC.
func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
