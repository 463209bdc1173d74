package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository      = (*InvoiceRepo)(nil)
	_ repository.InvoiceStatsRepository = (*InvoiceStatsRepo)(nil)
)

// InvoiceRepo implementación gorm de InvoiceRepository.
type InvoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	m := toInvoiceModel(inv)
	return writeErr("insert invoice", r.db.WithContext(ctx).Create(&m).Error)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var m invoiceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("get invoice", err)
	}
	return m.toEntity()
}

// List de la más reciente a la más antigua.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceListFilter) ([]*entity.Invoice, error) {
	q := partyScope(r.db.WithContext(ctx).Model(&invoiceModel{}), f.Party)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []invoiceModel
	if err := q.Order("date DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, readErr("list invoices", err)
	}
	out := make([]*entity.Invoice, 0, len(rows))
	for i := range rows {
		inv, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	m := toInvoiceModel(inv)
	res := r.db.WithContext(ctx).Model(&invoiceModel{ID: inv.ID}).
		Select("customer_id", "supplier_id", "amount", "date", "status", "updated_at").Updates(&m)
	return affected("update invoice", res)
}

func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&invoiceModel{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, readErr("count invoices by customer", err)
}

func (r *InvoiceRepo) CountBySupplier(ctx context.Context, supplierID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&invoiceModel{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, readErr("count invoices by supplier", err)
}

// InvoiceStatsRepo agregaciones del dashboard. SQLite no tiene tipo decimal exacto:
// el filtro va en SQL y la suma se hace con shopspring/decimal.
type InvoiceStatsRepo struct {
	db *gorm.DB
}

// NewInvoiceStatsRepository construye el adaptador de agregación.
func NewInvoiceStatsRepository(db *gorm.DB) *InvoiceStatsRepo {
	return &InvoiceStatsRepo{db: db}
}

func (r *InvoiceStatsRepo) CountWhere(ctx context.Context, f repository.StatsFilter) (int64, error) {
	var n int64
	if err := r.scope(ctx, f).Count(&n).Error; err != nil {
		return 0, readErr("stats.CountWhere", err)
	}
	return n, nil
}

func (r *InvoiceStatsRepo) SumWhere(ctx context.Context, f repository.StatsFilter) (decimal.NullDecimal, error) {
	rows, err := r.load(ctx, f)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if len(rows) == 0 {
		return decimal.NullDecimal{}, nil
	}
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.amount)
	}
	return decimal.NewNullDecimal(sum), nil
}

func (r *InvoiceStatsRepo) GroupByMonth(ctx context.Context, f repository.StatsFilter) ([]repository.MonthlyAggregate, error) {
	rows, err := r.load(ctx, f)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[time.Time]*repository.MonthlyAggregate)
	for _, row := range rows {
		d := row.date.UTC()
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		agg, ok := byMonth[month]
		if !ok {
			agg = &repository.MonthlyAggregate{Month: month, Sum: decimal.Zero}
			byMonth[month] = agg
		}
		agg.Count++
		agg.Sum = agg.Sum.Add(row.amount)
	}
	out := make([]repository.MonthlyAggregate, 0, len(byMonth))
	for _, agg := range byMonth {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

type statsRow struct {
	date   time.Time
	amount decimal.Decimal
}

func (r *InvoiceStatsRepo) load(ctx context.Context, f repository.StatsFilter) ([]statsRow, error) {
	var rows []invoiceModel
	if err := r.scope(ctx, f).Select("date", "amount").Find(&rows).Error; err != nil {
		return nil, readErr("stats.load", err)
	}
	out := make([]statsRow, 0, len(rows))
	for _, m := range rows {
		amount, err := decimal.NewFromString(m.Amount)
		if err != nil {
			return nil, readErr("stats.load", fmt.Errorf("amount %q: %w", m.Amount, err))
		}
		out = append(out, statsRow{date: m.Date, amount: amount})
	}
	return out, nil
}

func (r *InvoiceStatsRepo) scope(ctx context.Context, f repository.StatsFilter) *gorm.DB {
	q := partyScope(r.db.WithContext(ctx).Model(&invoiceModel{}), f.Party)
	if f.From != nil {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("date < ?", f.To.UTC())
	}
	return q
}

// partyScope clientes = sin proveedor; proveedores = sin cliente.
func partyScope(q *gorm.DB, p entity.Party) *gorm.DB {
	switch p {
	case entity.PartyCustomer:
		return q.Where("supplier_id IS NULL")
	case entity.PartySupplier:
		return q.Where("customer_id IS NULL")
	}
	return q
}

func toInvoiceModel(inv *entity.Invoice) invoiceModel {
	return invoiceModel{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		SupplierID: inv.SupplierID,
		Amount:     inv.Amount.StringFixed(entity.AmountDecimalPlaces),
		Date:       inv.Date.UTC(),
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt.UTC(),
		UpdatedAt:  inv.UpdatedAt.UTC(),
	}
}

func (m *invoiceModel) toEntity() (*entity.Invoice, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, readErr("invoice amount", err)
	}
	return &entity.Invoice{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		SupplierID: m.SupplierID,
		Amount:     amount,
		Date:       m.Date.UTC(),
		Status:     m.Status,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}, nil
}
