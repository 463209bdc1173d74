// seed puebla la base configurada (DB_DRIVER) con grupos, superusuario, usuarios,
// administradores, clientes, proveedores y facturas de demostración.
//
// Uso: go run ./cmd/seed [--users 100] [--admins 5] [--suppliers 5] [--days 90] [--workers 8] [--seed N]
// Los flags también se leen de SEED_USERS, SEED_ADMINS, etc.
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/seed"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/store"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.Int("users", seed.DefaultUsers, "usuarios a generar")
	flags.Int("admins", seed.DefaultAdmins, "administradores a generar")
	flags.Int("suppliers", seed.DefaultSuppliers, "proveedores a generar")
	flags.Int("days", seed.DefaultDays, "ventana de fechas de las facturas (días hacia atrás)")
	flags.Int("workers", seed.DefaultWorkers, "escrituras concurrentes")
	flags.Uint64("seed", 0, "semilla del generador (0 = aleatoria)")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("SEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic("flags: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	authUC := auth.NewAuthUseCase(repos.Users, repos.Groups, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, bcrypt.MinCost)
	customerUC := billing.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Users)
	supplierUC := billing.NewSupplierUseCase(repos.Suppliers, repos.Invoices, repos.Users)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Customers, repos.Suppliers, nil)

	opts := seed.Options{
		Users:     v.GetInt("users"),
		Admins:    v.GetInt("admins"),
		Suppliers: v.GetInt("suppliers"),
		Days:      v.GetInt("days"),
		Workers:   v.GetInt("workers"),
	}
	if s := v.GetUint64("seed"); s != 0 {
		opts.Rand = rand.New(rand.NewPCG(s, s>>1))
	}

	rep, err := seed.NewSeeder(authUC, customerUC, supplierUC, invoiceUC, log).Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrado incompleto")
	}
	log.Info().
		Int("users", rep.Users).
		Int("customer_invoices", rep.CustomerInvoices).
		Int("supplier_invoices", rep.SupplierInvoices).
		Msg("sembrado terminado")
}
