package postgres

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implementación de GroupRepository.
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador.
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

func (r *GroupRepo) Create(ctx context.Context, g *entity.Group) error {
	_, err := r.q.Exec(ctx, `INSERT INTO auth_groups (id, name) VALUES ($1, $2)`, g.ID, g.Name)
	return writeErr("insert group", err)
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	return r.findOne(ctx, `SELECT id, name FROM auth_groups WHERE id = $1`, id)
}

func (r *GroupRepo) GetByName(ctx context.Context, name string) (*entity.Group, error) {
	return r.findOne(ctx, `SELECT id, name FROM auth_groups WHERE name = $1`, name)
}

func (r *GroupRepo) List(ctx context.Context, limit, offset int) ([]*entity.Group, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM auth_groups ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("list groups", err)
	}
	defer rows.Close()
	list := make([]*entity.Group, 0)
	for rows.Next() {
		var g entity.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, domain.NewStorageError("scan group", err)
		}
		list = append(list, &g)
	}
	return list, domain.NewStorageError("list groups", rows.Err())
}

func (r *GroupRepo) Update(ctx context.Context, g *entity.Group) error {
	tag, err := r.q.Exec(ctx, `UPDATE auth_groups SET name = $2 WHERE id = $1`, g.ID, g.Name)
	if err != nil {
		return writeErr("update group", err)
	}
	return rowsAffected(tag)
}

// Delete elimina el grupo; user_groups cae en cascada.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM auth_groups WHERE id = $1`, id)
	if err != nil {
		return deleteErr("delete group", err)
	}
	return rowsAffected(tag)
}

func (r *GroupRepo) findOne(ctx context.Context, query string, arg string) (*entity.Group, error) {
	var g entity.Group
	if err := r.q.QueryRow(ctx, query, arg).Scan(&g.ID, &g.Name); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError("get group", err)
	}
	return &g, nil
}
