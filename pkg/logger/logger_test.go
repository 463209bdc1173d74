package logger

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberMiddleware_AsignaRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, Config{Env: "test", Level: "info"})

	app := fiber.New()
	app.Use(l.FiberMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	reqID := resp.Header.Get(HeaderRequestID)
	assert.NotEmpty(t, reqID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(204), entry["status"])
	assert.Equal(t, reqID, entry["request_id"])
}

func TestFiberMiddleware_ReutilizaRequestIDEntrante(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, Config{Level: "info"})

	app := fiber.New()
	app.Use(l.FiberMiddleware())
	app.Get("/x", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(404), entry["status"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "info", parseLevel("desconocido").String())
}
