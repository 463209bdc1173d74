package billing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func TestCustomer_ValidaNombreYEmail(t *testing.T) {
	f := newFixture()
	long := strings.Repeat("ñ", entity.CustomerNameMaxLen+1)

	cases := []struct {
		name  string
		in    dto.CreateCustomerRequest
		field string
	}{
		{"sin nombre", dto.CreateCustomerRequest{Email: "a@b.co"}, "name"},
		{"nombre largo", dto.CreateCustomerRequest{Name: long, Email: "a@b.co"}, "name"},
		{"sin email", dto.CreateCustomerRequest{Name: "Ana"}, "email"},
		{"usuario inexistente", dto.CreateCustomerRequest{Name: "Ana", Email: "a@b.co", UserID: ptr("u-x")}, "user_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.customers.Create(context.Background(), tc.in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCustomer_NombreDe128RunasEsValido(t *testing.T) {
	f := newFixture()
	_, err := f.customers.Create(context.Background(), dto.CreateCustomerRequest{
		Name: strings.Repeat("ñ", entity.CustomerNameMaxLen), Email: "a@b.co",
	})
	assert.NoError(t, err)
}

func TestCustomer_ConUsuarioExistente(t *testing.T) {
	f := newFixture()
	require.NoError(t, userRepo{f.store}.Create(context.Background(), &entity.User{ID: "u-1", Username: "ana"}))

	out, err := f.customers.Create(context.Background(), dto.CreateCustomerRequest{Name: "Ana", Email: "a@b.co", UserID: ptr("u-1")})
	require.NoError(t, err)
	require.NotNil(t, out.UserID)

	// null explícito desvincula el usuario.
	out, err = f.customers.Update(context.Background(), out.ID, dto.UpdateCustomerRequest{UserID: dto.OptionalString{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, out.UserID)
	assert.Equal(t, "Ana", out.Name)
}

func TestCustomer_BorradoProtegidoConFacturas(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)
	_, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{CustomerID: &cid, Amount: amount("5")})
	require.NoError(t, err)

	err = f.customers.Delete(context.Background(), cid)
	assert.ErrorIs(t, err, domain.ErrProtected)
	_, err = f.customers.Get(context.Background(), cid)
	assert.NoError(t, err)
}

func TestCustomer_BorradoSinFacturas(t *testing.T) {
	f := newFixture()
	cid := f.customer(t)

	require.NoError(t, f.customers.Delete(context.Background(), cid))
	_, err := f.customers.Get(context.Background(), cid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.customers.Delete(context.Background(), cid), domain.ErrNotFound)
}

func TestSupplier_BorradoProtegidoConFacturas(t *testing.T) {
	f := newFixture()
	sid := f.supplier(t)
	_, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{SupplierID: &sid, Amount: amount("5")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.suppliers.Delete(context.Background(), sid), domain.ErrProtected)
}

func TestCustomer_ListaOrdenadaPorNombre(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"Carla", "Ana", "Beto"} {
		_, err := f.customers.Create(context.Background(), dto.CreateCustomerRequest{Name: n, Email: n + "@x.co"})
		require.NoError(t, err)
	}
	out, err := f.customers.List(context.Background(), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ana", out[0].Name)
	assert.Equal(t, "Beto", out[1].Name)
}

type pdfSpy struct {
	customer *entity.Customer
	supplier *entity.Supplier
}

func (p *pdfSpy) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice, c *entity.Customer, s *entity.Supplier) ([]byte, error) {
	p.customer, p.supplier = c, s
	return []byte("%PDF-1.4"), nil
}

func TestPDF_GeneraConLaParteCorrecta(t *testing.T) {
	f := newFixture()
	sid := f.supplier(t)
	inv, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{SupplierID: &sid, Amount: amount("5")})
	require.NoError(t, err)

	spy := &pdfSpy{}
	uc := billing.NewPDFUseCase(invoiceRepo{f.store}, customerRepo{f.store}, supplierRepo{f.store}, spy)
	b, name, err := uc.DownloadInvoicePDF(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, "factura-"+inv.ID+".pdf", name)
	assert.Nil(t, spy.customer)
	require.NotNil(t, spy.supplier)
	assert.Equal(t, sid, spy.supplier.ID)

	_, _, err = uc.DownloadInvoicePDF(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
