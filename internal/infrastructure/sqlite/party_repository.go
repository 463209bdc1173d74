package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CustomerRepo implementación gorm de CustomerRepository.
type CustomerRepo struct {
	db *gorm.DB
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(db *gorm.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	m := toCustomerModel(c)
	return writeErr("insert customer", r.db.WithContext(ctx).Create(&m).Error)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var m customerModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("get customer", err)
	}
	return m.toEntity(), nil
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	var rows []customerModel
	err := r.db.WithContext(ctx).Order("name").Order("id").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, readErr("list customers", err)
	}
	out := make([]*entity.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	m := toCustomerModel(c)
	res := r.db.WithContext(ctx).Model(&customerModel{ID: c.ID}).
		Select("user_id", "name", "email", "image_url", "updated_at").Updates(&m)
	return affected("update customer", res)
}

// Delete elimina el cliente; con facturas asociadas devuelve ErrProtected.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&invoiceModel{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
			return readErr("delete customer", err)
		}
		if n > 0 {
			return domain.ErrProtected
		}
		return affected("delete customer", tx.Delete(&customerModel{}, "id = ?", id))
	})
}

// SupplierRepo implementación gorm de SupplierRepository.
type SupplierRepo struct {
	db *gorm.DB
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(db *gorm.DB) *SupplierRepo {
	return &SupplierRepo{db: db}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	m := toSupplierModel(s)
	return writeErr("insert supplier", r.db.WithContext(ctx).Create(&m).Error)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var m supplierModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("get supplier", err)
	}
	return m.toEntity(), nil
}

// List ordena por username del usuario vinculado; sin usuario al final.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var rows []supplierModel
	err := r.db.WithContext(ctx).
		Select("suppliers.*").
		Joins("LEFT JOIN users ON users.id = suppliers.user_id").
		Order("users.username IS NULL").Order("users.username").Order("suppliers.id").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, readErr("list suppliers", err)
	}
	out := make([]*entity.Supplier, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	m := toSupplierModel(s)
	res := r.db.WithContext(ctx).Model(&supplierModel{ID: s.ID}).
		Select("user_id", "image_url", "updated_at").Updates(&m)
	return affected("update supplier", res)
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&invoiceModel{}).Where("supplier_id = ?", id).Count(&n).Error; err != nil {
			return readErr("delete supplier", err)
		}
		if n > 0 {
			return domain.ErrProtected
		}
		return affected("delete supplier", tx.Delete(&supplierModel{}, "id = ?", id))
	})
}

// affected traduce el resultado de un UPDATE/DELETE: error de escritura o ErrNotFound si no hubo filas.
func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return writeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toCustomerModel(c *entity.Customer) customerModel {
	return customerModel{
		ID: c.ID, UserID: c.UserID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL,
		CreatedAt: c.CreatedAt.UTC(), UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (m *customerModel) toEntity() *entity.Customer {
	return &entity.Customer{
		ID: m.ID, UserID: m.UserID, Name: m.Name, Email: m.Email, ImageURL: m.ImageURL,
		CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func toSupplierModel(s *entity.Supplier) supplierModel {
	return supplierModel{
		ID: s.ID, UserID: s.UserID, ImageURL: s.ImageURL,
		CreatedAt: s.CreatedAt.UTC(), UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func (m *supplierModel) toEntity() *entity.Supplier {
	return &entity.Supplier{
		ID: m.ID, UserID: m.UserID, ImageURL: m.ImageURL,
		CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
	}
}
