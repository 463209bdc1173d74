package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InvoiceStatsRepository = (*InvoiceStatsRepo)(nil)

// InvoiceStatsRepo consultas de solo lectura para el dashboard.
// Cada método es una única sentencia SQL.
type InvoiceStatsRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceStatsRepository construye el adaptador de agregación.
func NewInvoiceStatsRepository(pool *pgxpool.Pool) *InvoiceStatsRepo {
	return &InvoiceStatsRepo{pool: pool}
}

// CountWhere cuenta las facturas del flujo en el rango.
func (r *InvoiceStatsRepo) CountWhere(ctx context.Context, f repository.StatsFilter) (int64, error) {
	where, args := statsWhere(f)
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&n); err != nil {
		return 0, domain.NewStorageError("stats.CountWhere", err)
	}
	return n, nil
}

// SumWhere suma los montos; SUM de cero filas es NULL y se devuelve como NullDecimal inválido.
func (r *InvoiceStatsRepo) SumWhere(ctx context.Context, f repository.StatsFilter) (decimal.NullDecimal, error) {
	where, args := statsWhere(f)
	var sum decimal.NullDecimal
	if err := r.pool.QueryRow(ctx, `SELECT SUM(amount) FROM invoices`+where, args...).Scan(&sum); err != nil {
		return decimal.NullDecimal{}, domain.NewStorageError("stats.SumWhere", err)
	}
	return sum, nil
}

// GroupByMonth agrupa por mes calendario UTC en orden ascendente.
func (r *InvoiceStatsRepo) GroupByMonth(ctx context.Context, f repository.StatsFilter) ([]repository.MonthlyAggregate, error) {
	where, args := statsWhere(f)
	query := `
	SELECT
	    date_trunc('month', date AT TIME ZONE 'UTC') AS month,
	    COUNT(*)                                     AS invoice_count,
	    SUM(amount)                                  AS total
	FROM invoices` + where + `
	GROUP BY month
	ORDER BY month`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("stats.GroupByMonth", err)
	}
	defer rows.Close()

	var out []repository.MonthlyAggregate
	for rows.Next() {
		var agg repository.MonthlyAggregate
		if err := rows.Scan(&agg.Month, &agg.Count, &agg.Sum); err != nil {
			return nil, domain.NewStorageError("stats.GroupByMonth scan", err)
		}
		// timestamp sin zona: pgx lo devuelve en UTC.
		agg.Month = agg.Month.UTC()
		out = append(out, agg)
	}
	return out, domain.NewStorageError("stats.GroupByMonth", rows.Err())
}

func statsWhere(f repository.StatsFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if cond := partyCondition(f.Party); cond != "" {
		conds = append(conds, cond)
	}
	if f.From != nil {
		args = append(args, f.From.UTC())
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, f.To.UTC())
		conds = append(conds, fmt.Sprintf("date < $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
