package billing

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo, userRepo: userRepo}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now().UTC()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		UserID:    emptyToNil(in.UserID),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		ImageURL:  emptyToNil(in.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.validate(ctx, customer); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes ordenados por nombre.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update aplica una actualización parcial.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.UserID = in.UserID.Apply(customer.UserID)
	customer.ImageURL = in.ImageURL.Apply(customer.ImageURL)
	if in.Name != nil {
		customer.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		customer.Email = strings.TrimSpace(*in.Email)
	}
	if err := uc.validate(ctx, customer); err != nil {
		return nil, err
	}
	customer.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente. Devuelve ErrProtected si tiene facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	n, err := uc.invoiceRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrProtected
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) find(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (uc *CustomerUseCase) validate(ctx context.Context, c *entity.Customer) error {
	if c.Name == "" {
		return domain.Invalid("name", "requerido")
	}
	if utf8.RuneCountInString(c.Name) > entity.CustomerNameMaxLen {
		return domain.Invalid("name", "máximo 128 caracteres")
	}
	if c.Email == "" {
		return domain.Invalid("email", "requerido")
	}
	if utf8.RuneCountInString(c.Email) > entity.CustomerEmailMaxLen {
		return domain.Invalid("email", "máximo 128 caracteres")
	}
	return checkUserExists(ctx, uc.userRepo, c.UserID)
}

// checkUserExists valida la referencia opcional a un usuario.
func checkUserExists(ctx context.Context, users repository.UserRepository, userID *string) error {
	if userID == nil {
		return nil
	}
	u, err := users.GetByID(ctx, *userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.Invalid("user_id", "el usuario no existe")
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
	}
}
