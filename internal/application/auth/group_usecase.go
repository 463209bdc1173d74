package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// CreateGroup crea un grupo. El nombre es único.
func (uc *AuthUseCase) CreateGroup(ctx context.Context, in dto.GroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	existing, err := uc.groupRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	g := &entity.Group{ID: uuid.New().String(), Name: name}
	if err := uc.groupRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return toGroupResponse(g), nil
}

// EnsureGroup devuelve el grupo con ese nombre, creándolo si no existe.
func (uc *AuthUseCase) EnsureGroup(ctx context.Context, name string) (*entity.Group, bool, error) {
	g, err := uc.groupRepo.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if g != nil {
		return g, false, nil
	}
	g = &entity.Group{ID: uuid.New().String(), Name: name}
	if err := uc.groupRepo.Create(ctx, g); err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// GetGroup obtiene un grupo por ID.
func (uc *AuthUseCase) GetGroup(ctx context.Context, id string) (*dto.GroupResponse, error) {
	g, err := uc.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(g), nil
}

// ListGroups lista grupos por nombre.
func (uc *AuthUseCase) ListGroups(ctx context.Context, page dto.PageRequest) ([]*dto.GroupResponse, error) {
	page.DefaultPage()
	list, err := uc.groupRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GroupResponse, 0, len(list))
	for _, g := range list {
		out = append(out, toGroupResponse(g))
	}
	return out, nil
}

// UpdateGroup renombra un grupo.
func (uc *AuthUseCase) UpdateGroup(ctx context.Context, id string, in dto.GroupRequest) (*dto.GroupResponse, error) {
	g, err := uc.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	if name != g.Name {
		other, err := uc.groupRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	g.Name = name
	if err := uc.groupRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return toGroupResponse(g), nil
}

// DeleteGroup elimina un grupo; las membresías se eliminan con él.
func (uc *AuthUseCase) DeleteGroup(ctx context.Context, id string) error {
	if _, err := uc.findGroup(ctx, id); err != nil {
		return err
	}
	return uc.groupRepo.Delete(ctx, id)
}

func (uc *AuthUseCase) findGroup(ctx context.Context, id string) (*entity.Group, error) {
	g, err := uc.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func toGroupResponse(g *entity.Group) *dto.GroupResponse {
	return &dto.GroupResponse{ID: g.ID, Name: g.Name}
}
