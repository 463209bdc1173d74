// @title                       Invoicing API
// @version                     1.0
// @description                 Clientes, proveedores, facturas y dashboard de estadísticas.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/invoicing-api/docs"
	"github.com/jhoicas/invoicing-api/internal/application/analytics"
	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/invoicing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/invoicing-api/internal/interfaces/http"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es obligatorio")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	// Métricas opcionales; *Metrics nil ignora las observaciones.
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})
	}

	customerUC := billing.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Users)
	supplierUC := billing.NewSupplierUseCase(repos.Suppliers, repos.Invoices, repos.Users)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Customers, repos.Suppliers, m)
	pdfUC := billing.NewPDFUseCase(
		repos.Invoices, repos.Customers, repos.Suppliers,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
	)
	dashboardUC := analytics.NewDashboardUseCase(analytics.NewStatsEngine(repos.Stats), nil, m)
	authUC := auth.NewAuthUseCase(repos.Users, repos.Groups, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, 0)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(log.FiberMiddleware())

	var metricsHandler fiber.Handler
	if m != nil {
		app.Use(m.FiberMiddleware())
		metricsHandler = m.Handler()
	}

	// Swagger UI fuera de producción: http://localhost:<port>/docs
	if !cfg.App.IsProduction() {
		swCfg := swagger.Config{
			BasePath: "/",
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}
		// SWAGGER_FILE vacío sirve el documento generado por swag init.
		if cfg.App.SwaggerFile != "" {
			swCfg.FilePath = cfg.App.SwaggerFile
		} else {
			swCfg.FileContent = []byte(docs.SwaggerInfo.ReadDoc())
		}
		app.Use(swagger.New(swCfg))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:  customerUC,
		SupplierUC:  supplierUC,
		InvoiceUC:   invoiceUC,
		PDFUC:       pdfUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Ping:        repos.Ping,
		Metrics:     metricsHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
