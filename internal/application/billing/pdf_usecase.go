package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// PDFUseCase genera el comprobante en PDF de una factura.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga la factura y su parte y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	// Cliente o proveedor, según el flujo.
	if inv.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(ctx, *inv.CustomerID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
		}
		pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, nil)
		if err != nil {
			return nil, "", err
		}
	} else if inv.SupplierID != nil {
		supplier, err := uc.supplierRepo.GetByID(ctx, *inv.SupplierID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
		}
		pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, nil, supplier)
		if err != nil {
			return nil, "", err
		}
	} else {
		return nil, "", domain.ErrMissingParty
	}

	return pdfBytes, fmt.Sprintf("factura-%s.pdf", inv.ID), nil
}
