package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// memStore implementa en memoria los repositorios que usa el paquete.
type memStore struct {
	mu        sync.Mutex
	customers map[string]entity.Customer
	suppliers map[string]entity.Supplier
	invoices  map[string]entity.Invoice
	users     map[string]entity.User
	fail      bool
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[string]entity.Customer{},
		suppliers: map[string]entity.Supplier{},
		invoices:  map[string]entity.Invoice{},
		users:     map[string]entity.User{},
	}
}

var errBroken = domain.NewStorageError("mem", errors.New("conexión perdida"))

type customerRepo struct{ *memStore }
type supplierRepo struct{ *memStore }
type invoiceRepo struct{ *memStore }
type userRepo struct{ *memStore }

var (
	_ repository.CustomerRepository = customerRepo{}
	_ repository.SupplierRepository = supplierRepo{}
	_ repository.InvoiceRepository  = invoiceRepo{}
	_ repository.UserRepository     = userRepo{}
)

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBroken
	}
	r.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errBroken
	}
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBroken
	}
	r.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r invoiceRepo) List(_ context.Context, f repository.InvoiceListFilter) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		inv := inv
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.Party != "" && inv.Party() != f.Party {
			continue
		}
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), nil
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBroken
	}
	r.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) CountByCustomer(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invoices {
		if inv.CustomerID != nil && *inv.CustomerID == id {
			n++
		}
	}
	return n, nil
}

func (r invoiceRepo) CountBySupplier(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invoices {
		if inv.SupplierID != nil && *inv.SupplierID == id {
			n++
		}
	}
	return n, nil
}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) List(context.Context, int, int) ([]*entity.User, error) { return nil, nil }

func (r userRepo) ListByGroup(context.Context, string) ([]*entity.User, error) { return nil, nil }

func (r userRepo) Update(context.Context, *entity.User) error { return nil }

func (r userRepo) Delete(context.Context, string) error { return nil }

func (r userRepo) IsReferenced(context.Context, string) (bool, error) { return false, nil }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type recorderSpy struct {
	written  []string
	rejected []error
}

func (r *recorderSpy) InvoiceWritten(op string, party entity.Party) {
	r.written = append(r.written, op+":"+string(party))
}

func (r *recorderSpy) InvoiceRejected(_ string, err error) {
	r.rejected = append(r.rejected, err)
}
