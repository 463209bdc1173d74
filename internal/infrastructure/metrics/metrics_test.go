package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func TestInvoiceWritten_CuentaPorOperacionYFlujo(t *testing.T) {
	m := New(Config{ServiceName: "test"})

	m.InvoiceWritten("create", entity.PartyCustomer)
	m.InvoiceWritten("create", entity.PartyCustomer)
	m.InvoiceWritten("update", entity.PartySupplier)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesWritten.WithLabelValues("create", "customer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesWritten.WithLabelValues("update", "supplier")))
}

func TestInvoiceRejected_ClasificaMotivo(t *testing.T) {
	m := New(Config{})

	m.InvoiceRejected("create", domain.ErrMissingParty)
	m.InvoiceRejected("create", domain.ErrConflictingParty)
	m.InvoiceRejected("update", domain.Invalid("amount", "máximo 2 decimales"))
	m.InvoiceRejected("update", errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("create", "missing_party")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("create", "conflicting_party")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("update", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("update", "other")))
}

func TestObserveDashboard_SeparaOkYError(t *testing.T) {
	m := New(Config{})

	m.ObserveDashboard(10*time.Millisecond, nil)
	m.ObserveDashboard(20*time.Millisecond, errors.New("db"))
	m.ObserveDashboard(30*time.Millisecond, nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.dashboardDuration))
}

func TestMetricsNil_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.InvoiceWritten("create", entity.PartyCustomer)
		m.InvoiceRejected("create", domain.ErrMissingParty)
		m.ObserveDashboard(time.Second, nil)
	})
}

func TestHandler_ExponeSeries(t *testing.T) {
	m := New(Config{ServiceName: "svc", Environment: "test"})
	m.InvoiceWritten("create", entity.PartySupplier)

	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping/42", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `invoicing_invoices_written_total{env="test",op="create",party="supplier",service="svc"} 1`)
	assert.Contains(t, out, `route="/ping/:id"`)
	assert.NotContains(t, out, `route="/ping/42"`)
}
