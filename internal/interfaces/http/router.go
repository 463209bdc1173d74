package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/invoicing-api/internal/application/analytics"
	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC  *billing.CustomerUseCase
	SupplierUC  *billing.SupplierUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PDFUC       *billing.PDFUseCase
	DashboardUC *analytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string

	ServiceName string
	Ping        func(ctx context.Context) error // nil = sin chequeo de DB en /health
	Metrics     fiber.Handler                   // nil = sin /metrics
}

// Route una entrada de la tabla de rutas.
// Public omite la autenticación; Roles vacío admite cualquier usuario autenticado.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
	Roles   []string
	Public  bool
}

var adminOnly = []string{entity.RoleAdmin}

// Routes devuelve la tabla completa de rutas del API.
func Routes(deps RouterDeps) []Route {
	authH := NewAuthHandler(deps.AuthUC)
	customerH := NewCustomerHandler(deps.CustomerUC)
	supplierH := NewSupplierHandler(deps.SupplierUC)
	invoiceH := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	userH := NewUserHandler(deps.AuthUC)
	dashboardH := NewDashboardHandler(deps.DashboardUC)

	routes := []Route{
		// Operacionales y públicos
		{Method: fiber.MethodGet, Path: "/health", Handler: healthHandler(deps), Public: true},
		{Method: fiber.MethodGet, Path: "/dashboard", Handler: dashboardH.Get, Public: true},
		{Method: fiber.MethodPost, Path: "/auth/login", Handler: authH.Login, Public: true},

		{Method: fiber.MethodGet, Path: "/auth/me", Handler: authH.Me},

		// Clientes
		{Method: fiber.MethodGet, Path: pathCustomers, Handler: customerH.List},
		{Method: fiber.MethodPost, Path: pathCustomers, Handler: customerH.Create},
		{Method: fiber.MethodGet, Path: pathCustomers + "/:id", Handler: customerH.GetByID},
		{Method: fiber.MethodPut, Path: pathCustomers + "/:id", Handler: customerH.Update},
		{Method: fiber.MethodPatch, Path: pathCustomers + "/:id", Handler: customerH.Update},
		{Method: fiber.MethodDelete, Path: pathCustomers + "/:id", Handler: customerH.Delete, Roles: adminOnly},

		// Proveedores
		{Method: fiber.MethodGet, Path: pathSuppliers, Handler: supplierH.List},
		{Method: fiber.MethodPost, Path: pathSuppliers, Handler: supplierH.Create},
		{Method: fiber.MethodGet, Path: pathSuppliers + "/:id", Handler: supplierH.GetByID},
		{Method: fiber.MethodPut, Path: pathSuppliers + "/:id", Handler: supplierH.Update},
		{Method: fiber.MethodPatch, Path: pathSuppliers + "/:id", Handler: supplierH.Update},
		{Method: fiber.MethodDelete, Path: pathSuppliers + "/:id", Handler: supplierH.Delete, Roles: adminOnly},

		// Facturas (sin borrado)
		{Method: fiber.MethodGet, Path: pathInvoices, Handler: invoiceH.List},
		{Method: fiber.MethodPost, Path: pathInvoices, Handler: invoiceH.Create},
		{Method: fiber.MethodGet, Path: pathInvoices + "/:id", Handler: invoiceH.GetByID},
		{Method: fiber.MethodPut, Path: pathInvoices + "/:id", Handler: invoiceH.Update},
		{Method: fiber.MethodPatch, Path: pathInvoices + "/:id", Handler: invoiceH.Update},
		{Method: fiber.MethodGet, Path: pathInvoices + "/:id/pdf", Handler: invoiceH.DownloadPDF},

		// Administración
		{Method: fiber.MethodGet, Path: pathUsers, Handler: userH.List, Roles: adminOnly},
		{Method: fiber.MethodPost, Path: pathUsers, Handler: userH.Create, Roles: adminOnly},
		{Method: fiber.MethodGet, Path: pathUsers + "/:id", Handler: userH.GetByID, Roles: adminOnly},
		{Method: fiber.MethodPatch, Path: pathUsers + "/:id", Handler: userH.Update, Roles: adminOnly},
		{Method: fiber.MethodDelete, Path: pathUsers + "/:id", Handler: userH.Delete, Roles: adminOnly},

		{Method: fiber.MethodGet, Path: pathGroups, Handler: userH.ListGroups, Roles: adminOnly},
		{Method: fiber.MethodPost, Path: pathGroups, Handler: userH.CreateGroup, Roles: adminOnly},
		{Method: fiber.MethodGet, Path: pathGroups + "/:id", Handler: userH.GetGroup, Roles: adminOnly},
		{Method: fiber.MethodPatch, Path: pathGroups + "/:id", Handler: userH.UpdateGroup, Roles: adminOnly},
		{Method: fiber.MethodDelete, Path: pathGroups + "/:id", Handler: userH.DeleteGroup, Roles: adminOnly},
	}

	if deps.Metrics != nil {
		routes = append(routes, Route{Method: fiber.MethodGet, Path: "/metrics", Handler: deps.Metrics, Public: true})
	}
	return routes
}

// Router registra la tabla de rutas en app, anteponiendo auth y RBAC según cada entrada.
func Router(app *fiber.App, deps RouterDeps) {
	authMW := AuthMiddleware(deps.JWTSecret)
	activeMW := RequireActiveUser(deps.AuthUC)

	for _, r := range Routes(deps) {
		handlers := make([]fiber.Handler, 0, 4)
		if !r.Public {
			handlers = append(handlers, authMW, activeMW)
			if len(r.Roles) > 0 {
				handlers = append(handlers, RequireRole(r.Roles...))
			}
		}
		handlers = append(handlers, r.Handler)
		app.Add(r.Method, r.Path, handlers...)
	}
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Description  Responde 503 si la base de datos no contesta.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func healthHandler(deps RouterDeps) fiber.Handler {
	name := deps.ServiceName
	if name == "" {
		name = "invoicing-api"
	}
	return func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": name})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	}
}
