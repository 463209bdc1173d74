// Package pdf genera el comprobante imprimible de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Flujo (por cobrar / por pagar) │ ID + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRAPARTE: cliente (nombre + email) o proveedor          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Estado | Monto                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el identificador + leyenda                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPaid    = &props.Color{Red: 22, Green: 120, Blue: 60}
	colorPending = &props.Color{Red: 190, Green: 110, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: nonEmpty(author, "invoicing-api")}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	ctx context.Context,
	invoice *entity.Invoice,
	customer *entity.Customer,
	supplier *entity.Supplier,
) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("pdf: factura nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.ID, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow(invoice, customer, supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detailRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: flujo de la factura (izq) e ID + fecha (der).
func headerRow(invoice *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(flowLabel(invoice.Party()), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("N° "+invoice.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+invoice.Date.UTC().Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partyRow: datos de la contraparte.
func partyRow(invoice *entity.Invoice, customer *entity.Customer, supplier *entity.Supplier) core.Row {
	title := "CLIENTE"
	name, detail := "-", ""
	switch invoice.Party() {
	case entity.PartyCustomer:
		if customer != nil {
			name = customer.Name
			detail = "Email: " + nonEmpty(customer.Email, "-")
		} else if invoice.CustomerID != nil {
			name = *invoice.CustomerID
		}
	case entity.PartySupplier:
		title = "PROVEEDOR"
		if supplier != nil {
			name = supplier.ID
			detail = "Imagen: " + nonEmpty(deref(supplier.ImageURL), "-")
		} else if invoice.SupplierID != nil {
			name = *invoice.SupplierID
		}
	}

	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// detailRow: estado y monto alineados a la derecha.
func detailRow(invoice *entity.Invoice) core.Row {
	statusColor := colorPending
	if invoice.Status == entity.InvoiceStatusPaid {
		statusColor = colorPaid
	}
	return row.New(18).Add(
		col.New(6).Add(
			text.New("Estado:", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.New(statusLabel(invoice.Status), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 8, Color: statusColor,
			}),
		),
		col.New(6).Add(
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1,
			}),
			text.New("$"+formatMoney(invoice.Amount.StringFixed(entity.AmountDecimalPlaces)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 8, Right: 1,
			}),
		),
	)
}

// footerRow: QR con el identificador y leyenda.
func footerRow(invoice *entity.Invoice) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(invoice.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Identificador de la factura codificado en el QR.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Documento generado automáticamente; no requiere firma.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func flowLabel(p entity.Party) string {
	if p == entity.PartySupplier {
		return "Cuenta por pagar"
	}
	return "Cuenta por cobrar"
}

func statusLabel(s string) string {
	switch s {
	case entity.InvoiceStatusPaid:
		return "PAGADA"
	case entity.InvoiceStatusPending:
		return "PENDIENTE"
	}
	return strings.ToUpper(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatMoney inserta puntos de miles en la parte entera y coma decimal.
// Ej: "25000.50" → "25.000,50", "-1000000.00" → "-1.000.000,00"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
