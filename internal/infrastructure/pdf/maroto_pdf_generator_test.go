package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestGenerateInvoicePDF_ClienteGeneraDocumento(t *testing.T) {
	inv := &entity.Invoice{
		ID:         "7d0f1c9e-0000-4000-8000-000000000001",
		CustomerID: strPtr("c-1"),
		Amount:     decimal.RequireFromString("1250.50"),
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:     entity.InvoiceStatusPaid,
	}
	customer := &entity.Customer{ID: "c-1", Name: "Ana Gómez", Email: "ana@example.com"}

	out, err := NewMarotoPDFGenerator("").GenerateInvoicePDF(context.Background(), inv, customer, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_ProveedorSinEntidadUsaID(t *testing.T) {
	inv := &entity.Invoice{
		ID:         "inv-2",
		SupplierID: strPtr("s-9"),
		Amount:     decimal.RequireFromString("-20.00"),
		Date:       time.Now(),
		Status:     entity.InvoiceStatusPending,
	}

	out, err := NewMarotoPDFGenerator("tests").GenerateInvoicePDF(context.Background(), inv, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateInvoicePDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inv := &entity.Invoice{ID: "x", CustomerID: strPtr("c"), Status: entity.InvoiceStatusPending}

	_, err := NewMarotoPDFGenerator("").GenerateInvoicePDF(ctx, inv, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0.00":        "0,00",
		"999":         "999",
		"25000.50":    "25.000,50",
		"-1000000.00": "-1.000.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "PAGADA", statusLabel(entity.InvoiceStatusPaid))
	assert.Equal(t, "PENDIENTE", statusLabel(entity.InvoiceStatusPending))
	assert.Equal(t, "OTRO", statusLabel("otro"))
}
