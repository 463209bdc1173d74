package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
)

// Prefijos de recurso usados en las URLs de las respuestas.
const (
	pathCustomers = "/customers"
	pathSuppliers = "/suppliers"
	pathInvoices  = "/invoices"
	pathUsers     = "/users"
	pathGroups    = "/groups"
)

// resourceURL arma la URL absoluta de un recurso a partir del host de la petición.
func resourceURL(c *fiber.Ctx, prefix, id string) string {
	return c.BaseURL() + prefix + "/" + id
}

// refURL igual que resourceURL para referencias opcionales.
func refURL(c *fiber.Ctx, prefix string, id *string) *string {
	if id == nil {
		return nil
	}
	u := resourceURL(c, prefix, *id)
	return &u
}

func linkCustomer(c *fiber.Ctx, r *dto.CustomerResponse) *dto.CustomerResponse {
	r.URL = resourceURL(c, pathCustomers, r.ID)
	r.UserURL = refURL(c, pathUsers, r.UserID)
	return r
}

func linkSupplier(c *fiber.Ctx, r *dto.SupplierResponse) *dto.SupplierResponse {
	r.URL = resourceURL(c, pathSuppliers, r.ID)
	r.UserURL = refURL(c, pathUsers, r.UserID)
	return r
}

func linkInvoice(c *fiber.Ctx, r *dto.InvoiceResponse) *dto.InvoiceResponse {
	r.URL = resourceURL(c, pathInvoices, r.ID)
	r.CustomerURL = refURL(c, pathCustomers, r.CustomerID)
	r.SupplierURL = refURL(c, pathSuppliers, r.SupplierID)
	return r
}

func linkUser(c *fiber.Ctx, r *dto.UserResponse) *dto.UserResponse {
	r.URL = resourceURL(c, pathUsers, r.ID)
	return r
}

func linkGroup(c *fiber.Ctx, r *dto.GroupResponse) *dto.GroupResponse {
	r.URL = resourceURL(c, pathGroups, r.ID)
	return r
}

// linkAll aplica link a cada elemento de la lista.
func linkAll[T any](c *fiber.Ctx, list []*T, link func(*fiber.Ctx, *T) *T) []*T {
	for _, item := range list {
		link(c, item)
	}
	return list
}
