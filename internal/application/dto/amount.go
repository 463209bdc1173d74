package dto

import (
	"github.com/shopspring/decimal"
)

// Amount monto monetario que viaja como número JSON con 2 decimales (ej: 60.00).
// Acepta en la entrada tanto número como string.
type Amount struct {
	decimal.Decimal
}

// NewAmount envuelve un decimal.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

// NullableAmount convierte un NullDecimal en *Amount (nil = JSON null).
func NullableAmount(d decimal.NullDecimal) *Amount {
	if !d.Valid {
		return nil
	}
	a := NewAmount(d.Decimal)
	return &a
}

// MarshalJSON emite el monto sin comillas y con escala fija de 2.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

// UnmarshalJSON delega en decimal (acepta 12.5 y "12.5").
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}
