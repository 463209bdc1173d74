package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, customer_id, supplier_id, amount, date, status, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La tabla tiene un CHECK que repite la exclusividad cliente/proveedor.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CustomerID, inv.SupplierID, inv.Amount, inv.Date.UTC(), inv.Status,
		inv.CreatedAt, inv.UpdatedAt,
	)
	return writeErr("insert invoice", err)
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get invoice", err)
	}
	return inv, nil
}

// List lista facturas de la más reciente a la más antigua con filtros opcionales.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceListFilter) ([]*entity.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if cond := partyCondition(f.Party); cond != "" {
		where = append(where, cond)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY date DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list invoices", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan invoice", err)
		}
		list = append(list, inv)
	}
	return list, domain.NewStorageError("list invoices", rows.Err())
}

// Update reemplaza los campos editables de la factura.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, supplier_id = $3, amount = $4, date = $5, status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.CustomerID, inv.SupplierID, inv.Amount, inv.Date.UTC(), inv.Status, inv.UpdatedAt,
	)
	if err != nil {
		return writeErr("update invoice", err)
	}
	return rowsAffected(tag)
}

// CountByCustomer cuenta las facturas de un cliente.
func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&n)
	return n, domain.NewStorageError("count invoices by customer", err)
}

// CountBySupplier cuenta las facturas de un proveedor.
func (r *InvoiceRepo) CountBySupplier(ctx context.Context, supplierID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE supplier_id = $1`, supplierID).Scan(&n)
	return n, domain.NewStorageError("count invoices by supplier", err)
}

// partyCondition traduce el flujo al filtro SQL: clientes = sin proveedor y viceversa.
func partyCondition(p entity.Party) string {
	switch p {
	case entity.PartyCustomer:
		return "supplier_id IS NULL"
	case entity.PartySupplier:
		return "customer_id IS NULL"
	}
	return ""
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(
		&inv.ID, &inv.CustomerID, &inv.SupplierID, &inv.Amount, &inv.Date, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Date = inv.Date.UTC()
	return &inv, nil
}
