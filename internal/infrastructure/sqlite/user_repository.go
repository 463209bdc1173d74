package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var (
	_ repository.UserRepository  = (*UserRepo)(nil)
	_ repository.GroupRepository = (*GroupRepo)(nil)
)

// UserRepo implementación gorm de UserRepository. La tabla user_groups se mantiene a mano.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepository construye el adaptador.
func NewUserRepository(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toUserModel(u)
		if err := tx.Create(&m).Error; err != nil {
			return writeErr("insert user", err)
		}
		return setGroups(tx, u.ID, u.Groups)
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// List por fecha de alta descendente.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).Order("date_joined DESC").Order("id").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, readErr("list users", err)
	}
	return r.withGroups(ctx, rows)
}

func (r *UserRepo) ListByGroup(ctx context.Context, group string) ([]*entity.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Where("auth_groups.name = ?", group).
		Order("users.username").
		Find(&rows).Error
	if err != nil {
		return nil, readErr("list users by group", err)
	}
	return r.withGroups(ctx, rows)
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toUserModel(u)
		res := tx.Model(&userModel{ID: u.ID}).
			Select("email", "first_name", "last_name", "password_hash", "is_superuser", "is_active").
			Updates(&m)
		if err := affected("update user", res); err != nil {
			return err
		}
		return setGroups(tx, u.ID, u.Groups)
	})
}

// Delete elimina el usuario y sus membresías. Con clientes o proveedores vinculados devuelve ErrProtected.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		referenced, err := isReferenced(tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return domain.ErrProtected
		}
		if err := tx.Delete(&userGroupModel{}, "user_id = ?", id).Error; err != nil {
			return writeErr("delete user groups", err)
		}
		return affected("delete user", tx.Delete(&userModel{}, "id = ?", id))
	})
}

func (r *UserRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	return isReferenced(r.db.WithContext(ctx), id)
}

func isReferenced(db *gorm.DB, id string) (bool, error) {
	var n int64
	if err := db.Model(&customerModel{}).Where("user_id = ?", id).Count(&n).Error; err != nil {
		return false, readErr("user references", err)
	}
	if n > 0 {
		return true, nil
	}
	if err := db.Model(&supplierModel{}).Where("user_id = ?", id).Count(&n).Error; err != nil {
		return false, readErr("user references", err)
	}
	return n > 0, nil
}

func (r *UserRepo) findOne(ctx context.Context, cond string, arg string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("get user", err)
	}
	users, err := r.withGroups(ctx, []userModel{m})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// withGroups carga los nombres de grupo de los usuarios en una sola consulta.
func (r *UserRepo) withGroups(ctx context.Context, rows []userModel) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	var memberships []struct {
		UserID string
		Name   string
	}
	err := r.db.WithContext(ctx).Table("user_groups").
		Select("user_groups.user_id, auth_groups.name").
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Where("user_groups.user_id IN ?", ids).
		Scan(&memberships).Error
	if err != nil {
		return nil, readErr("load user groups", err)
	}
	groups := make(map[string][]string, len(rows))
	for _, ms := range memberships {
		groups[ms.UserID] = append(groups[ms.UserID], ms.Name)
	}
	for i := range rows {
		u := rows[i].toEntity()
		u.Groups = groups[u.ID]
		if u.Groups == nil {
			u.Groups = []string{}
		}
		sort.Strings(u.Groups)
		out = append(out, u)
	}
	return out, nil
}

// setGroups reemplaza las membresías del usuario.
func setGroups(tx *gorm.DB, userID string, names []string) error {
	if err := tx.Delete(&userGroupModel{}, "user_id = ?", userID).Error; err != nil {
		return writeErr("clear user groups", err)
	}
	if len(names) == 0 {
		return nil
	}
	var groups []groupModel
	if err := tx.Where("name IN ?", names).Find(&groups).Error; err != nil {
		return readErr("set user groups", err)
	}
	if len(groups) != len(names) {
		return fmt.Errorf("set user groups: %w", domain.ErrNotFound)
	}
	links := make([]userGroupModel, 0, len(groups))
	for _, g := range groups {
		links = append(links, userGroupModel{UserID: userID, GroupID: g.ID})
	}
	return writeErr("set user groups", tx.Create(&links).Error)
}

func toUserModel(u *entity.User) userModel {
	return userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsSuperuser:  u.IsSuperuser,
		IsActive:     u.IsActive,
		DateJoined:   u.DateJoined.UTC(),
	}
}

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		IsSuperuser:  m.IsSuperuser,
		IsActive:     m.IsActive,
		DateJoined:   m.DateJoined.UTC(),
	}
}

// GroupRepo implementación gorm de GroupRepository.
type GroupRepo struct {
	db *gorm.DB
}

// NewGroupRepository construye el adaptador.
func NewGroupRepository(db *gorm.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) Create(ctx context.Context, g *entity.Group) error {
	m := groupModel{ID: g.ID, Name: g.Name}
	return writeErr("insert group", r.db.WithContext(ctx).Create(&m).Error)
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GroupRepo) GetByName(ctx context.Context, name string) (*entity.Group, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *GroupRepo) List(ctx context.Context, limit, offset int) ([]*entity.Group, error) {
	var rows []groupModel
	if err := r.db.WithContext(ctx).Order("name").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, readErr("list groups", err)
	}
	out := make([]*entity.Group, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.Group{ID: m.ID, Name: m.Name})
	}
	return out, nil
}

func (r *GroupRepo) Update(ctx context.Context, g *entity.Group) error {
	res := r.db.WithContext(ctx).Model(&groupModel{ID: g.ID}).Update("name", g.Name)
	return affected("update group", res)
}

// Delete elimina el grupo y sus membresías.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&userGroupModel{}, "group_id = ?", id).Error; err != nil {
			return writeErr("delete group members", err)
		}
		return affected("delete group", tx.Delete(&groupModel{}, "id = ?", id))
	})
}

func (r *GroupRepo) findOne(ctx context.Context, cond, arg string) (*entity.Group, error) {
	var m groupModel
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("get group", err)
	}
	return &entity.Group{ID: m.ID, Name: m.Name}, nil
}
