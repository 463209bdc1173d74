package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	repo        repository.SupplierRepository
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(
	repo repository.SupplierRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, invoiceRepo: invoiceRepo, userRepo: userRepo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	now := time.Now().UTC()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		UserID:    emptyToNil(in.UserID),
		ImageURL:  emptyToNil(in.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := checkUserExists(ctx, uc.userRepo, supplier.UserID); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Get obtiene un proveedor por ID.
func (uc *SupplierUseCase) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores ordenados por usuario.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Update aplica una actualización parcial.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.UserID = in.UserID.Apply(s.UserID)
	s.ImageURL = in.ImageURL.Apply(s.ImageURL)
	if err := checkUserExists(ctx, uc.userRepo, s.UserID); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor. Devuelve ErrProtected si tiene facturas.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	n, err := uc.invoiceRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrProtected
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) find(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
	}
}
