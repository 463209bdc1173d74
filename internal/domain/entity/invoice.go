package entity

import (
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Precisión de Amount: NUMERIC(11,2).
const (
	AmountDecimalPlaces = 2
	AmountMaxDigits     = 11
)

// Límite exclusivo del valor absoluto de Amount (10^(11-2)).
var amountLimit = decimal.New(1, AmountMaxDigits-AmountDecimalPlaces)

// Party identifica el flujo de caja de una factura.
type Party string

const (
	PartyCustomer Party = "customer" // cuentas por cobrar
	PartySupplier Party = "supplier" // cuentas por pagar
)

// Valid indica si p es uno de los valores conocidos.
func (p Party) Valid() bool {
	return p == PartyCustomer || p == PartySupplier
}

// Invoice representa una factura emitida a un cliente o recibida de un proveedor.
// Exactamente uno de CustomerID / SupplierID debe estar definido.
type Invoice struct {
	ID         string
	CustomerID *string
	SupplierID *string
	Amount     decimal.Decimal
	Date       time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Party devuelve el flujo al que pertenece la factura (solo tiene sentido tras ValidateParties).
func (i *Invoice) Party() Party {
	if i.SupplierID != nil {
		return PartySupplier
	}
	return PartyCustomer
}

// ValidateParties exige que exactamente uno de cliente/proveedor esté definido.
func (i *Invoice) ValidateParties() error {
	hasCustomer := i.CustomerID != nil && *i.CustomerID != ""
	hasSupplier := i.SupplierID != nil && *i.SupplierID != ""
	switch {
	case !hasCustomer && !hasSupplier:
		return domain.ErrMissingParty
	case hasCustomer && hasSupplier:
		return domain.ErrConflictingParty
	}
	return nil
}

// Validate comprueba la factura completa antes de persistirla:
// partes, monto (2 decimales, máx. 11 dígitos), estado y fecha.
func (i *Invoice) Validate() error {
	if err := i.ValidateParties(); err != nil {
		return err
	}
	if err := ValidateAmount(i.Amount); err != nil {
		return err
	}
	if !ValidInvoiceStatus(i.Status) {
		return domain.Invalid("status", "debe ser pending o paid")
	}
	if i.Date.IsZero() {
		return domain.Invalid("date", "requerida")
	}
	return nil
}

// ValidateAmount comprueba que el monto cabe en NUMERIC(11,2).
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountDecimalPlaces)) {
		return domain.Invalid("amount", "máximo 2 decimales")
	}
	if amount.Abs().GreaterThanOrEqual(amountLimit) {
		return domain.Invalid("amount", "máximo 11 dígitos en total")
	}
	return nil
}

// ValidInvoiceStatus indica si s es un estado de factura conocido.
func ValidInvoiceStatus(s string) bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}
