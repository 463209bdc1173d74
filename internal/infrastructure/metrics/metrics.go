// Package metrics expone contadores e histogramas Prometheus del API de facturación.
package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoicing-api/internal/application/analytics"
	appbilling "github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

var (
	_ appbilling.InvoiceRecorder  = (*Metrics)(nil)
	_ analytics.DashboardRecorder = (*Metrics)(nil)
)

// Config etiquetas constantes de todas las series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics agrupa los instrumentos y el registry que los expone.
type Metrics struct {
	registry *prometheus.Registry

	invoicesWritten   *prometheus.CounterVec
	invoicesRejected  *prometheus.CounterVec
	dashboardDuration *prometheus.HistogramVec
	requestDuration   *prometheus.HistogramVec
}

// New crea un registry propio con los colectores de proceso y de Go más los del API.
func New(cfg Config) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicing-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invoicesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "invoicing_invoices_written_total",
				Help:        "Facturas creadas o actualizadas, por operación y flujo.",
				ConstLabels: constLabels,
			},
			[]string{"op", "party"}, // create|update, customer|supplier
		),
		invoicesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "invoicing_invoices_rejected_total",
				Help:        "Escrituras de facturas rechazadas por validación.",
				ConstLabels: constLabels,
			},
			[]string{"op", "reason"},
		),
		dashboardDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "invoicing_dashboard_duration_seconds",
				Help:        "Latencia del cálculo del dashboard.",
				Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
				ConstLabels: constLabels,
			},
			[]string{"result"}, // ok | error
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "invoicing_http_request_duration_seconds",
				Help:        "Duración de las peticiones HTTP por ruta y código.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status_code"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.invoicesWritten,
		m.invoicesRejected,
		m.dashboardDuration,
		m.requestDuration,
	)
	return m
}

// Registry devuelve el registry (útil en tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// InvoiceWritten implementa billing.InvoiceRecorder.
func (m *Metrics) InvoiceWritten(op string, party entity.Party) {
	if m == nil {
		return
	}
	m.invoicesWritten.WithLabelValues(op, string(party)).Inc()
}

// InvoiceRejected implementa billing.InvoiceRecorder.
func (m *Metrics) InvoiceRejected(op string, err error) {
	if m == nil {
		return
	}
	m.invoicesRejected.WithLabelValues(op, rejectReason(err)).Inc()
}

// ObserveDashboard implementa analytics.DashboardRecorder.
func (m *Metrics) ObserveDashboard(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dashboardDuration.WithLabelValues(result).Observe(d.Seconds())
}

// Handler expone el registry en formato Prometheus para montarlo en fiber.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// FiberMiddleware mide la duración por plantilla de ruta (no por path concreto).
func (m *Metrics) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && status != fiber.StatusNotFound {
			route = r.Path
		}
		m.requestDuration.
			WithLabelValues(c.Method(), route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingParty):
		return "missing_party"
	case errors.Is(err, domain.ErrConflictingParty):
		return "conflicting_party"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	}
	return "other"
}
