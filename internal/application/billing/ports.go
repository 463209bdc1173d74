package billing

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceRecorder recibe los eventos de escritura de facturas (métricas).
// Lo implementa el paquete de métricas; nil desactiva el registro.
type InvoiceRecorder interface {
	InvoiceWritten(op string, party entity.Party)
	InvoiceRejected(op string, err error)
}

// InvoicePDFGenerator define el puerto para generar el PDF de una factura.
// customer o supplier puede ser nil según el flujo de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		customer *entity.Customer,
		supplier *entity.Supplier,
	) ([]byte, error)
}
