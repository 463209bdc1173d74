package entity

import "time"

// Longitudes máximas de los campos de texto del cliente.
const (
	CustomerNameMaxLen  = 128
	CustomerEmailMaxLen = 128
)

// Customer representa un cliente (lado de cuentas por cobrar).
// UserID es opcional: un cliente puede existir sin identidad asociada.
type Customer struct {
	ID        string
	UserID    *string
	Name      string
	Email     string
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
