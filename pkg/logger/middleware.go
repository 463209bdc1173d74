package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID cabecera de correlación de peticiones.
const HeaderRequestID = "X-Request-Id"

// LocalsRequestID clave en c.Locals con el request id.
const LocalsRequestID = "request_id"

// FiberMiddleware registra cada petición (método, ruta, status, latencia y request id).
// Reutiliza el X-Request-Id entrante o genera uno nuevo y lo devuelve en la respuesta.
func (l *Logger) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals(LocalsRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = l.zl.Error()
		case status >= 400:
			ev = l.zl.Warn()
		default:
			ev = l.zl.Info()
		}
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
		return err
	}
}
