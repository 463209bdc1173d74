package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// Los grupos del usuario se guardan por nombre; un grupo inexistente es ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// List ordena por fecha de alta descendente.
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	ListByGroup(ctx context.Context, group string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// IsReferenced indica si algún cliente o proveedor apunta al usuario.
	IsReferenced(ctx context.Context, id string) (bool, error)
}

// GroupRepository define el puerto de persistencia para Group.
type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetByName(ctx context.Context, name string) (*entity.Group, error)
	// List ordena por nombre.
	List(ctx context.Context, limit, offset int) ([]*entity.Group, error)
	Update(ctx context.Context, group *entity.Group) error
	Delete(ctx context.Context, id string) error
}
