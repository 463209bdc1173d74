package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// Operaciones reportadas al InvoiceRecorder.
const (
	OpCreate = "create"
	OpUpdate = "update"
)

// InvoiceUseCase crea, consulta y actualiza facturas.
// Toda escritura pasa por entity.Invoice.Validate antes de llegar al repositorio.
type InvoiceUseCase struct {
	repo         repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	recorder     InvoiceRecorder
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. recorder puede ser nil.
func NewInvoiceUseCase(
	repo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	recorder InvoiceRecorder,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		repo:         repo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		recorder:     recorder,
		now:          time.Now,
	}
}

// Create valida y persiste una factura nueva.
// Date por defecto es el instante de creación; Status por defecto "pending".
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := uc.now().UTC()
	invoice := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: emptyToNil(in.CustomerID),
		SupplierID: emptyToNil(in.SupplierID),
		Date:       now,
		Status:     entity.InvoiceStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Date != nil {
		invoice.Date = in.Date.UTC()
	}
	if in.Status != "" {
		invoice.Status = in.Status
	}
	if in.Amount != nil {
		invoice.Amount = in.Amount.Decimal
	}

	if err := uc.checkWrite(ctx, invoice, in.Amount == nil); err != nil {
		uc.rejected(OpCreate, err)
		return nil, err
	}
	if err := uc.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	uc.written(OpCreate, invoice)
	return toInvoiceResponse(invoice), nil
}

// Update aplica una actualización parcial y vuelve a validar la factura completa.
// customer_id/supplier_id en null limpian la referencia, lo que permite cambiar de flujo
// en una sola petición.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice.CustomerID = in.CustomerID.Apply(invoice.CustomerID)
	invoice.SupplierID = in.SupplierID.Apply(invoice.SupplierID)
	if in.Amount != nil {
		invoice.Amount = in.Amount.Decimal
	}
	if in.Date != nil {
		invoice.Date = in.Date.UTC()
	}
	if in.Status != nil {
		invoice.Status = *in.Status
	}

	if err := uc.checkWrite(ctx, invoice, false); err != nil {
		uc.rejected(OpUpdate, err)
		return nil, err
	}
	invoice.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	uc.written(OpUpdate, invoice)
	return toInvoiceResponse(invoice), nil
}

// Get obtiene una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// List lista facturas de la más reciente a la más antigua.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceListRequest) ([]*dto.InvoiceResponse, error) {
	in.DefaultPage()
	filter := repository.InvoiceListFilter{
		Status: in.Status,
		Party:  entity.Party(in.Party),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Status != "" && !entity.ValidInvoiceStatus(filter.Status) {
		return nil, domain.Invalid("status", "debe ser pending o paid")
	}
	if filter.Party != "" && !filter.Party.Valid() {
		return nil, domain.Invalid("party", "debe ser customer o supplier")
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// checkWrite aplica el validador y comprueba que la parte referenciada existe.
func (uc *InvoiceUseCase) checkWrite(ctx context.Context, invoice *entity.Invoice, missingAmount bool) error {
	if err := invoice.ValidateParties(); err != nil {
		return err
	}
	if missingAmount {
		return domain.Invalid("amount", "requerido")
	}
	if err := invoice.Validate(); err != nil {
		return err
	}

	if invoice.CustomerID != nil {
		c, err := uc.customerRepo.GetByID(ctx, *invoice.CustomerID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.Invalid("customer_id", "el cliente no existe")
		}
		return nil
	}
	s, err := uc.supplierRepo.GetByID(ctx, *invoice.SupplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.Invalid("supplier_id", "el proveedor no existe")
	}
	return nil
}

func (uc *InvoiceUseCase) find(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (uc *InvoiceUseCase) written(op string, invoice *entity.Invoice) {
	if uc.recorder != nil {
		uc.recorder.InvoiceWritten(op, invoice.Party())
	}
}

func (uc *InvoiceUseCase) rejected(op string, err error) {
	if uc.recorder == nil || domain.IsStorageError(err) {
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrMissingParty) ||
		errors.Is(err, domain.ErrConflictingParty) {
		uc.recorder.InvoiceRejected(op, err)
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		SupplierID: inv.SupplierID,
		Amount:     dto.NewAmount(inv.Amount),
		Date:       inv.Date,
		Status:     inv.Status,
	}
}
