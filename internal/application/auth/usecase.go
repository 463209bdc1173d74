package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/jhoicas/invoicing-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y administración de usuarios y grupos.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	jwtCfg     JWTConfig
	bcryptCost int
}

// NewAuthUseCase construye el caso de uso de auth.
// bcryptCost <= 0 usa bcrypt.DefaultCost; el seeder pasa bcrypt.MinCost.
func NewAuthUseCase(userRepo repository.UserRepository, groupRepo repository.GroupRepository, jwtCfg JWTConfig, bcryptCost int) *AuthUseCase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthUseCase{userRepo: userRepo, groupRepo: groupRepo, jwtCfg: jwtCfg, bcryptCost: bcryptCost}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// CurrentRole devuelve el rol vigente del usuario y si sigue activo.
// Un usuario borrado cuenta como inactivo y sin rol.
func (uc *AuthUseCase) CurrentRole(ctx context.Context, userID string) (role string, active bool, err error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if user == nil {
		return "", false, nil
	}
	return user.Role(), user.IsActive, nil
}

// CreateUser hashea el password con bcrypt y persiste el usuario.
// Devuelve ErrDuplicate si el username ya existe.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username", "requerido")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "requerido")
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	groups, err := uc.checkGroups(ctx, in.Groups)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		IsSuperuser:  in.IsSuperuser,
		IsActive:     true,
		Groups:       groups,
		DateJoined:   time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetUser obtiene un usuario por ID.
func (uc *AuthUseCase) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	return uc.Me(ctx, id)
}

// ListUsers lista usuarios del más reciente al más antiguo.
func (uc *AuthUseCase) ListUsers(ctx context.Context, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

// UpdateUser aplica una actualización parcial. Un password nuevo se vuelve a hashear.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Groups != nil {
		groups, err := uc.checkGroups(ctx, *in.Groups)
		if err != nil {
			return nil, err
		}
		user.Groups = groups
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.Invalid("password", "requerido")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// DeleteUser elimina un usuario. Devuelve ErrProtected si un cliente o proveedor lo referencia.
func (uc *AuthUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.findUser(ctx, id); err != nil {
		return err
	}
	referenced, err := uc.userRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrProtected
	}
	return uc.userRepo.Delete(ctx, id)
}

// EnsureSuperuser crea el superusuario si no existe. created=false indica que ya existía.
func (uc *AuthUseCase) EnsureSuperuser(ctx context.Context, username, email, password string) (created bool, err error) {
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{
		Username:    username,
		Email:       email,
		Password:    password,
		IsSuperuser: true,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

func (uc *AuthUseCase) findUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// checkGroups valida que los grupos existan y elimina duplicados.
func (uc *AuthUseCase) checkGroups(ctx context.Context, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		g, err := uc.groupRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, domain.Invalid("groups", "el grupo "+name+" no existe")
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// ToUserResponse convierte la entidad sin exponer el hash del password.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	groups := u.Groups
	if groups == nil {
		groups = []string{}
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		Groups:      groups,
		DateJoined:  u.DateJoined,
	}
}
