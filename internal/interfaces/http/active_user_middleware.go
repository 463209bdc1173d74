package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
)

// roleResolver es el contrato mínimo que necesita el middleware para conocer el estado
// actual del usuario del token. Lo implementa *auth.AuthUseCase.
type roleResolver interface {
	CurrentRole(ctx context.Context, userID string) (role string, active bool, err error)
}

// RequireActiveUser rechaza tokens de usuarios desactivados o eliminados después de
// emitido el token y reemplaza el rol del token por el rol guardado, de modo que
// RequireRole decide con los grupos vigentes. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → usuario inactivo o inexistente.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireActiveUser(resolver roleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		role, active, err := resolver.CurrentRole(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "la cuenta está inactiva",
			})
		}
		c.Locals(LocalRole, role)
		return c.Next()
	}
}
