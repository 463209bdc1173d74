package entity

import "time"

// Supplier representa un proveedor (lado de cuentas por pagar).
type Supplier struct {
	ID        string
	UserID    *string
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
