// Package seed puebla la base con datos de demostración a través de los casos de uso,
// de modo que todas las escrituras pasan por las mismas validaciones que el API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

// Valores por defecto del sembrado.
const (
	DefaultUsers     = 100
	DefaultAdmins    = 5
	DefaultSuppliers = 5
	DefaultDays      = 90
	DefaultWorkers   = 8

	SuperuserName     = "superuser"
	SuperuserEmail    = "admin@ocg.com"
	SuperuserPassword = "admin_pass"
	AdminPassword     = "admin_pass"
	UserPassword      = "user_pass"
)

// Proporción paid:pending de las facturas generadas.
const (
	paidWeight    = 10
	pendingWeight = 3
)

// Monto en centavos: [20.00, 3000.00).
const (
	minAmountCents  = 2000
	spanAmountCents = 298000
)

// Options parámetros del sembrado. Los ceros toman los valores por defecto.
type Options struct {
	Users     int
	Admins    int
	Suppliers int
	Days      int
	Workers   int
	Now       func() time.Time
	Rand      *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Users <= 0 {
		o.Users = DefaultUsers
	}
	if o.Admins < 0 {
		o.Admins = 0
	} else if o.Admins == 0 {
		o.Admins = DefaultAdmins
	}
	if o.Suppliers < 0 {
		o.Suppliers = 0
	} else if o.Suppliers == 0 {
		o.Suppliers = DefaultSuppliers
	}
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		o.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return o
}

// Report resumen de lo creado.
type Report struct {
	GroupsCreated    int
	SuperuserCreated bool
	Users            int
	DuplicateUsers   int
	Admins           int
	Customers        int
	Suppliers        int
	CustomerInvoices int
	SupplierInvoices int
}

// Seeder orquesta el sembrado sobre los casos de uso.
type Seeder struct {
	auth      *auth.AuthUseCase
	customers *billing.CustomerUseCase
	suppliers *billing.SupplierUseCase
	invoices  *billing.InvoiceUseCase
	log       *logger.Logger
}

// NewSeeder construye el sembrador.
func NewSeeder(
	authUC *auth.AuthUseCase,
	customers *billing.CustomerUseCase,
	suppliers *billing.SupplierUseCase,
	invoices *billing.InvoiceUseCase,
	log *logger.Logger,
) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{auth: authUC, customers: customers, suppliers: suppliers, invoices: invoices, log: log}
}

type person struct {
	first, last, username, email string
}

// Run ejecuta el sembrado completo. Los usernames duplicados se cuentan y no se reintentan.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	rep := &Report{}

	for _, name := range []string{entity.GroupAdmin, entity.GroupCustomer} {
		_, created, err := s.auth.EnsureGroup(ctx, name)
		if err != nil {
			return rep, fmt.Errorf("grupo %s: %w", name, err)
		}
		if created {
			rep.GroupsCreated++
		}
	}

	created, err := s.auth.EnsureSuperuser(ctx, SuperuserName, SuperuserEmail, SuperuserPassword)
	if err != nil {
		return rep, fmt.Errorf("superuser: %w", err)
	}
	rep.SuperuserCreated = created
	if created {
		s.log.Info().Str("username", SuperuserName).Msg("superuser creado")
	} else {
		s.log.Warn().Str("username", SuperuserName).Msg("superuser ya existe")
	}

	// Todo lo aleatorio se genera antes de lanzar workers: rand.Rand no es seguro entre goroutines.
	customerPeople := randomPeople(opts.Rand, opts.Users)
	adminPeople := uniquePeople(opts.Rand, opts.Admins)

	users, dups, err := s.createUsers(ctx, opts.Workers, customerPeople, entity.GroupCustomer, UserPassword)
	if err != nil {
		return rep, err
	}
	rep.Users, rep.DuplicateUsers = len(users), dups
	if dups > 0 {
		s.log.Error().Int("duplicates", dups).Msg("usuarios no creados por username duplicado")
	}

	admins, adminDups, err := s.createUsers(ctx, opts.Workers, adminPeople, entity.GroupAdmin, AdminPassword)
	if err != nil {
		return rep, err
	}
	rep.Admins = len(admins)
	if adminDups > 0 {
		s.log.Warn().Int("duplicates", adminDups).Msg("administradores ya existentes")
	}

	customerIDs := make([]string, 0, len(users))
	for _, u := range users {
		fullName := u.FirstName + " " + u.LastName
		image := robohashURL(fullName)
		userID := u.ID
		c, err := s.customers.Create(ctx, dto.CreateCustomerRequest{
			UserID:   &userID,
			Name:     fullName,
			Email:    u.Email,
			ImageURL: &image,
		})
		if err != nil {
			return rep, fmt.Errorf("cliente %s: %w", fullName, err)
		}
		customerIDs = append(customerIDs, c.ID)
		s.log.Debug().Str("customer", fullName).Msg("cliente creado")
	}
	rep.Customers = len(customerIDs)

	supplierIDs := make([]string, 0, opts.Suppliers)
	for i := range opts.Suppliers {
		image := fmt.Sprintf("https://robohash.org/supplier-%d?set=set3", i+1)
		var userID *string
		if i < len(admins) {
			userID = &admins[i].ID
		}
		sup, err := s.suppliers.Create(ctx, dto.CreateSupplierRequest{UserID: userID, ImageURL: &image})
		if err != nil {
			return rep, fmt.Errorf("proveedor %d: %w", i+1, err)
		}
		supplierIDs = append(supplierIDs, sup.ID)
	}
	rep.Suppliers = len(supplierIDs)

	reqs := invoiceRequests(opts, customerIDs, supplierIDs)
	if err := s.createInvoices(ctx, opts.Workers, reqs); err != nil {
		return rep, err
	}
	for _, r := range reqs {
		if r.CustomerID != nil {
			rep.CustomerInvoices++
		} else {
			rep.SupplierInvoices++
		}
	}

	s.log.Info().
		Int("users", rep.Users).
		Int("duplicates", rep.DuplicateUsers).
		Int("admins", rep.Admins).
		Int("customers", rep.Customers).
		Int("suppliers", rep.Suppliers).
		Int("customer_invoices", rep.CustomerInvoices).
		Int("supplier_invoices", rep.SupplierInvoices).
		Msg("sembrado completado")
	return rep, nil
}

// createUsers crea usuarios con un pool de workers. Devuelve los creados en el orden de entrada.
func (s *Seeder) createUsers(ctx context.Context, workers int, people []person, group, password string) ([]*dto.UserResponse, int, error) {
	results := make([]*dto.UserResponse, len(people))
	var (
		mu   sync.Mutex
		dups int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range people {
		g.Go(func() error {
			u, err := s.auth.CreateUser(gctx, dto.CreateUserRequest{
				Username:  p.username,
				Email:     p.email,
				FirstName: p.first,
				LastName:  p.last,
				Password:  password,
				Groups:    []string{group},
			})
			if errors.Is(err, domain.ErrDuplicate) {
				mu.Lock()
				dups++
				mu.Unlock()
				s.log.Warn().Int("n", i+1).Str("username", p.username).Msg("usuario no creado: duplicado")
				return nil
			}
			if err != nil {
				return fmt.Errorf("usuario %s: %w", p.username, err)
			}
			results[i] = u
			s.log.Debug().Int("n", i+1).Str("username", p.username).Str("group", group).Msg("usuario creado")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dups, err
	}

	created := make([]*dto.UserResponse, 0, len(results))
	for _, u := range results {
		if u != nil {
			created = append(created, u)
		}
	}
	return created, dups, nil
}

func (s *Seeder) createInvoices(ctx context.Context, workers int, reqs []dto.CreateInvoiceRequest) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, req := range reqs {
		g.Go(func() error {
			if _, err := s.invoices.Create(gctx, req); err != nil {
				return fmt.Errorf("factura: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// invoiceRequests reparte customers*100/days facturas de cliente por día y una quinta
// parte de ese volumen como facturas de proveedor.
func invoiceRequests(opts Options, customerIDs, supplierIDs []string) []dto.CreateInvoiceRequest {
	perDay := len(customerIDs) * 100 / opts.Days
	supplierPerDay := perDay / 5
	if len(supplierIDs) == 0 {
		supplierPerDay = 0
	}
	if len(customerIDs) == 0 {
		perDay = 0
	}

	r := opts.Rand
	now := opts.Now().UTC()
	reqs := make([]dto.CreateInvoiceRequest, 0, opts.Days*(perDay+supplierPerDay))
	for day := range opts.Days {
		date := now.AddDate(0, 0, -day)
		for range perDay {
			id := customerIDs[r.IntN(len(customerIDs))]
			reqs = append(reqs, newInvoiceRequest(r, date, &id, nil))
		}
		for range supplierPerDay {
			id := supplierIDs[r.IntN(len(supplierIDs))]
			reqs = append(reqs, newInvoiceRequest(r, date, nil, &id))
		}
	}
	return reqs
}

func newInvoiceRequest(r *rand.Rand, date time.Time, customerID, supplierID *string) dto.CreateInvoiceRequest {
	amount := dto.NewAmount(randomAmount(r))
	d := date
	return dto.CreateInvoiceRequest{
		CustomerID: customerID,
		SupplierID: supplierID,
		Amount:     &amount,
		Date:       &d,
		Status:     randomStatus(r),
	}
}

func randomAmount(r *rand.Rand) decimal.Decimal {
	return decimal.New(int64(minAmountCents+r.IntN(spanAmountCents)), -2)
}

func randomStatus(r *rand.Rand) string {
	if r.IntN(paidWeight+pendingWeight) < paidWeight {
		return entity.InvoiceStatusPaid
	}
	return entity.InvoiceStatusPending
}

func randomPeople(r *rand.Rand, n int) []person {
	out := make([]person, n)
	for i := range out {
		first := firstNames[r.IntN(len(firstNames))]
		last := lastNames[r.IntN(len(lastNames))]
		username := Username(first, last)
		out[i] = person{first: first, last: last, username: username, email: username + "@" + randomProvider(r)}
	}
	return out
}

// uniquePeople no repite nombre ni apellido, así los usernames no chocan entre sí.
func uniquePeople(r *rand.Rand, n int) []person {
	n = min(n, len(firstNames), len(lastNames))
	firsts := r.Perm(len(firstNames))
	lasts := r.Perm(len(lastNames))
	out := make([]person, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < len(firsts) && len(out) < n; i++ {
		first, last := firstNames[firsts[i]], lastNames[lasts[i]]
		username := Username(first, last)
		if seen[username] {
			continue
		}
		seen[username] = true
		out = append(out, person{first: first, last: last, username: username, email: username + "@" + adminEmailDomain})
	}
	return out
}

func randomProvider(r *rand.Rand) string {
	total := 0
	for _, p := range emailProviders {
		total += p.weight
	}
	n := r.IntN(total)
	for _, p := range emailProviders {
		if n < p.weight {
			return p.domain
		}
		n -= p.weight
	}
	return emailProviders[0].domain
}
