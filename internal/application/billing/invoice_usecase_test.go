package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

type fixture struct {
	store     *memStore
	invoices  *billing.InvoiceUseCase
	customers *billing.CustomerUseCase
	suppliers *billing.SupplierUseCase
	recorder  *recorderSpy
}

func newFixture() *fixture {
	s := newMemStore()
	rec := &recorderSpy{}
	return &fixture{
		store:     s,
		invoices:  billing.NewInvoiceUseCase(invoiceRepo{s}, customerRepo{s}, supplierRepo{s}, rec),
		customers: billing.NewCustomerUseCase(customerRepo{s}, invoiceRepo{s}, userRepo{s}),
		suppliers: billing.NewSupplierUseCase(supplierRepo{s}, invoiceRepo{s}, userRepo{s}),
		recorder:  rec,
	}
}

func (f *fixture) customer(t *testing.T) string {
	t.Helper()
	c, err := f.customers.Create(context.Background(), dto.CreateCustomerRequest{Name: "Ana Pérez", Email: "ana@example.com"})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) supplier(t *testing.T) string {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), dto.CreateSupplierRequest{})
	require.NoError(t, err)
	return s.ID
}

func amount(s string) *dto.Amount {
	a := dto.NewAmount(decimal.RequireFromString(s))
	return &a
}

func ptr(s string) *string { return &s }

func TestInvoice_CrearConClienteUsaValoresPorDefecto(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)

	out, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("150.50")})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPending, out.Status)
	assert.False(t, out.Date.IsZero())
	assert.Equal(t, time.UTC, out.Date.Location())
	assert.Nil(t, out.SupplierID)
	assert.Equal(t, []string{"create:customer"}, f.recorder.written)
	assert.Len(t, f.store.invoices, 1)
}

func TestInvoice_CrearConProveedor(t *testing.T) {
	f := newFixture()
	sid := f.supplier(t)

	out, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{
		SupplierID: &sid, Amount: amount("20"), Status: entity.InvoiceStatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.Equal(t, []string{"create:supplier"}, f.recorder.written)
}

func TestInvoice_ExclusividadDePartes(t *testing.T) {
	f := newFixture()
	cid, sid := f.customer(t), f.supplier(t)

	_, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrMissingParty)

	_, err = f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, SupplierID: &sid, Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrConflictingParty)

	// Cadenas vacías cuentan como ausentes.
	empty := ""
	_, err = f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &empty, SupplierID: &empty, Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrMissingParty)

	assert.Empty(t, f.store.invoices, "ninguna escritura parcial")
	assert.Len(t, f.recorder.rejected, 3)
}

func TestInvoice_ValidacionDeCampos(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)

	cases := []struct {
		name  string
		in    dto.CreateInvoiceRequest
		field string
	}{
		{"sin monto", dto.CreateInvoiceRequest{CustomerID: &cid}, "amount"},
		{"tres decimales", dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("1.005")}, "amount"},
		{"demasiados dígitos", dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("1000000000.00")}, "amount"},
		{"estado desconocido", dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("1"), Status: "void"}, "status"},
		{"cliente inexistente", dto.CreateInvoiceRequest{CustomerID: ptr("no-existe"), Amount: amount("1")}, "customer_id"},
		{"proveedor inexistente", dto.CreateInvoiceRequest{SupplierID: ptr("no-existe"), Amount: amount("1")}, "supplier_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.invoices.Create(context.Background(), tc.in)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Empty(t, f.store.invoices)
}

func TestInvoice_MontoNegativoPermitido(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)

	out, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("-15.25")})
	require.NoError(t, err)
	assert.Equal(t, "-15.25", out.Amount.StringFixed(2))
}

func TestInvoice_ActualizarCambiaDeFlujo(t *testing.T) {
	f := newFixture()
	cid, sid := f.customer(t), f.supplier(t)
	created, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("10")})
	require.NoError(t, err)

	// Asignar proveedor sin limpiar cliente viola la exclusividad.
	_, err = f.invoices.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		SupplierID: dto.OptionalString{Set: true, Value: &sid},
	})
	assert.ErrorIs(t, err, domain.ErrConflictingParty)

	stored, _ := invoiceRepo{f.store}.GetByID(context.Background(), created.ID)
	require.NotNil(t, stored.CustomerID, "la factura almacenada no cambia")
	assert.Nil(t, stored.SupplierID)

	// Limpiar cliente y asignar proveedor en la misma petición.
	out, err := f.invoices.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		CustomerID: dto.OptionalString{Set: true},
		SupplierID: dto.OptionalString{Set: true, Value: &sid},
	})
	require.NoError(t, err)
	assert.Nil(t, out.CustomerID)
	require.NotNil(t, out.SupplierID)
	assert.Equal(t, sid, *out.SupplierID)

	// Limpiar ambas partes falla.
	_, err = f.invoices.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		SupplierID: dto.OptionalString{Set: true},
	})
	assert.ErrorIs(t, err, domain.ErrMissingParty)
}

func TestInvoice_ActualizacionParcialConservaCampos(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("99.90"), Date: &date})
	require.NoError(t, err)

	paid := entity.InvoiceStatusPaid
	out, err := f.invoices.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.Equal(t, "99.90", out.Amount.StringFixed(2))
	assert.True(t, out.Date.Equal(date))
	require.NotNil(t, out.CustomerID)
	assert.Equal(t, cid, *out.CustomerID)
}

func TestInvoice_NoEncontrada(t *testing.T) {
	f := newFixture()
	_, err := f.invoices.Get(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.invoices.Update(context.Background(), "nada", dto.UpdateInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoice_ErrorDeAlmacenamientoNoSeCuentaComoRechazo(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)
	f.store.fail = true

	_, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("10")})
	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
	assert.Empty(t, f.recorder.rejected)
	assert.Empty(t, f.recorder.written)
}

func TestInvoice_ListarFiltraYOrdena(t *testing.T) {
	f := newFixture()
	cid, sid := f.customer(t), f.supplier(t)
	for i, d := range []int{3, 1, 2} {
		date := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
		req := dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("10"), Date: &date}
		if i == 0 {
			req = dto.CreateInvoiceRequest{SupplierID: &sid, Amount: amount("10"), Date: &date}
		}
		_, err := f.invoices.Create(context.Background(), req)
		require.NoError(t, err)
	}

	all, err := f.invoices.List(context.Background(), dto.InvoiceListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Date.Day(), "más reciente primero")

	customers, err := f.invoices.List(context.Background(), dto.InvoiceListRequest{Party: "customer"})
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	_, err = f.invoices.List(context.Background(), dto.InvoiceListRequest{Party: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.List(context.Background(), dto.InvoiceListRequest{Status: "void"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
