package postgres

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, user_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.UserID, s.ImageURL, s.CreatedAt, s.UpdatedAt,
	)
	return writeErr("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, image_url, created_at, updated_at FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get supplier", err)
	}
	return &s, nil
}

// List ordena por el username del usuario vinculado; sin usuario al final.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.user_id, s.image_url, s.created_at, s.updated_at
		FROM suppliers s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY u.username NULLS LAST, s.id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("list suppliers", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.UserID, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("scan supplier", err)
		}
		list = append(list, &s)
	}
	return list, domain.NewStorageError("list suppliers", rows.Err())
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE suppliers SET user_id = $2, image_url = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.UserID, s.ImageURL, s.UpdatedAt,
	)
	if err != nil {
		return writeErr("update supplier", err)
	}
	return rowsAffected(tag)
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return deleteErr("delete supplier", err)
	}
	return rowsAffected(tag)
}
