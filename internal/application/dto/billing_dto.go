package dto

import "time"

// CreateCustomerRequest body para POST /customers.
type CreateCustomerRequest struct {
	UserID   *string `json:"user_id,omitempty"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	ImageURL *string `json:"image,omitempty"`
}

// UpdateCustomerRequest body para PUT/PATCH /customers/:id (parcial).
type UpdateCustomerRequest struct {
	UserID   OptionalString `json:"user_id" swaggertype:"string"`
	Name     *string        `json:"name"`
	Email    *string        `json:"email"`
	ImageURL OptionalString `json:"image" swaggertype:"string"`
}

// CustomerResponse cliente en respuestas. URL y UserURL los completa la capa HTTP.
type CustomerResponse struct {
	URL       string    `json:"url,omitempty"`
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	UserURL   *string   `json:"user"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplierRequest body para POST /suppliers.
type CreateSupplierRequest struct {
	UserID   *string `json:"user_id,omitempty"`
	ImageURL *string `json:"image,omitempty"`
}

// UpdateSupplierRequest body para PUT/PATCH /suppliers/:id (parcial).
type UpdateSupplierRequest struct {
	UserID   OptionalString `json:"user_id" swaggertype:"string"`
	ImageURL OptionalString `json:"image" swaggertype:"string"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	URL       string    `json:"url,omitempty"`
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	UserURL   *string   `json:"user"`
	ImageURL  *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInvoiceRequest body para POST /invoices.
// Exactamente uno de CustomerID / SupplierID. Date y Status son opcionales
// (por defecto: ahora y "pending").
type CreateInvoiceRequest struct {
	CustomerID *string    `json:"customer_id,omitempty"`
	SupplierID *string    `json:"supplier_id,omitempty"`
	Amount     *Amount    `json:"amount" swaggertype:"number"`
	Date       *time.Time `json:"date,omitempty"`
	Status     string     `json:"status,omitempty"`
}

// UpdateInvoiceRequest body para PUT/PATCH /invoices/:id.
// Los campos ausentes conservan su valor; customer_id/supplier_id en null se limpian.
type UpdateInvoiceRequest struct {
	CustomerID OptionalString `json:"customer_id" swaggertype:"string"`
	SupplierID OptionalString `json:"supplier_id" swaggertype:"string"`
	Amount     *Amount        `json:"amount" swaggertype:"number"`
	Date       *time.Time     `json:"date"`
	Status     *string        `json:"status"`
}

// InvoiceListRequest query de GET /invoices.
type InvoiceListRequest struct {
	PageRequest
	Status string `query:"status"`
	Party  string `query:"party"` // customer | supplier
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	URL         string    `json:"url,omitempty"`
	ID          string    `json:"id"`
	CustomerID  *string   `json:"customer_id"`
	CustomerURL *string   `json:"customer"`
	SupplierID  *string   `json:"supplier_id"`
	SupplierURL *string   `json:"supplier"`
	Amount      Amount    `json:"amount" swaggertype:"number"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}
