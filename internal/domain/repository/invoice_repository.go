package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceListFilter filtros opcionales del listado de facturas.
type InvoiceListFilter struct {
	Status string       // vacío = todos
	Party  entity.Party // vacío = ambos flujos
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice.
// No hay borrado: las facturas no se eliminan físicamente.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List ordena por fecha descendente.
	List(ctx context.Context, filter InvoiceListFilter) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// CountByCustomer / CountBySupplier se usan para proteger el borrado de las partes.
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	CountBySupplier(ctx context.Context, supplierID string) (int64, error)
}
