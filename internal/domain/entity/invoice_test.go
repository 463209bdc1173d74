package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:         "inv-1",
		CustomerID: strPtr("cus-1"),
		Amount:     decimal.RequireFromString("10.50"),
		Date:       time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Status:     entity.InvoiceStatusPending,
	}
}

func TestValidateParties(t *testing.T) {
	cases := []struct {
		name     string
		customer *string
		supplier *string
		want     error
	}{
		{"solo cliente", strPtr("c"), nil, nil},
		{"solo proveedor", nil, strPtr("s"), nil},
		{"ninguno", nil, nil, domain.ErrMissingParty},
		{"ids vacíos cuentan como ausentes", strPtr(""), strPtr(""), domain.ErrMissingParty},
		{"ambos", strPtr("c"), strPtr("s"), domain.ErrConflictingParty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &entity.Invoice{CustomerID: tc.customer, SupplierID: tc.supplier}
			err := inv.ValidateParties()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInvoiceParty(t *testing.T) {
	inv := validInvoice()
	assert.Equal(t, entity.PartyCustomer, inv.Party())

	inv.CustomerID = nil
	inv.SupplierID = strPtr("sup-1")
	assert.Equal(t, entity.PartySupplier, inv.Party())
}

func TestValidate_Amount(t *testing.T) {
	cases := []struct {
		amount string
		ok     bool
	}{
		{"0", true},
		{"20.00", true},
		{"999999999.99", true},
		{"-15.25", true},
		{"10.005", false},
		{"1000000000", false},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			inv := validInvoice()
			inv.Amount = decimal.RequireFromString(tc.amount)
			err := inv.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "amount", ve.Field)
		})
	}
}

func TestValidate_StatusYFecha(t *testing.T) {
	inv := validInvoice()
	inv.Status = "cancelled"
	assert.ErrorIs(t, inv.Validate(), domain.ErrInvalidInput)

	inv = validInvoice()
	inv.Date = time.Time{}
	assert.ErrorIs(t, inv.Validate(), domain.ErrInvalidInput)
}

// Las partes se validan antes que el resto de campos.
func TestValidate_PartesPrimero(t *testing.T) {
	inv := validInvoice()
	inv.SupplierID = strPtr("sup-1")
	inv.Status = "otro"
	assert.ErrorIs(t, inv.Validate(), domain.ErrConflictingParty)
}

func TestUserRole(t *testing.T) {
	u := &entity.User{Username: "ana"}
	assert.Equal(t, entity.RoleUser, u.Role())

	u.Groups = []string{entity.GroupCustomer, entity.GroupAdmin}
	assert.Equal(t, entity.RoleAdmin, u.Role())

	su := &entity.User{IsSuperuser: true}
	assert.Equal(t, entity.RoleAdmin, su.Role())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ana Pérez", (&entity.User{FirstName: "Ana", LastName: "Pérez"}).FullName())
	assert.Equal(t, "ana", (&entity.User{Username: "ana"}).FullName())
	assert.Equal(t, "Ana", (&entity.User{FirstName: "Ana"}).FullName())
}
