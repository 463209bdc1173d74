package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/invoicing-api/internal/application/analytics"
)

// DashboardHandler expone el resumen de facturación.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get godoc
// @Summary      Estadísticas de facturación
// @Description  Meses del año en curso (clientes), acumulados históricos y ganancia. Un fallo de almacenamiento responde 500, nunca ceros.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	summary, err := h.uc.GetDashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
