package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// Los grupos se leen en la misma consulta como arreglo ordenado por nombre.
const userSelect = `
	SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash,
	       u.is_superuser, u.is_active, u.date_joined,
	       ARRAY(
	           SELECT g.name FROM user_groups ug
	           JOIN auth_groups g ON g.id = ug.group_id
	           WHERE ug.user_id = u.id ORDER BY g.name
	       ) AS groups
	FROM users u`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo usuario y sus grupos en una transacción.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.inTx(ctx, "insert user", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, first_name, last_name, password_hash, is_superuser, is_active, date_joined)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
			u.IsSuperuser, u.IsActive, u.DateJoined,
		)
		if err != nil {
			return writeErr("insert user", err)
		}
		return setGroups(ctx, tx, u.ID, u.Groups)
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "get user", userSelect+` WHERE u.id = $1`, id)
}

// GetByUsername obtiene un usuario por username (login).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "get user by username", userSelect+` WHERE u.username = $1`, username)
}

// List lista usuarios por fecha de alta descendente.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return r.findMany(ctx, "list users", userSelect+` ORDER BY u.date_joined DESC, u.id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByGroup lista los miembros de un grupo.
func (r *UserRepo) ListByGroup(ctx context.Context, group string) ([]*entity.User, error) {
	return r.findMany(ctx, "list users by group", userSelect+`
		WHERE EXISTS (
			SELECT 1 FROM user_groups ug JOIN auth_groups g ON g.id = ug.group_id
			WHERE ug.user_id = u.id AND g.name = $1
		)
		ORDER BY u.username`, group)
}

// Update actualiza datos y grupos del usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.inTx(ctx, "update user", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users SET email = $2, first_name = $3, last_name = $4, password_hash = $5,
			       is_superuser = $6, is_active = $7
			WHERE id = $1`,
			u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsSuperuser, u.IsActive,
		)
		if err != nil {
			return writeErr("update user", err)
		}
		if err := rowsAffected(tag); err != nil {
			return err
		}
		return setGroups(ctx, tx, u.ID, u.Groups)
	})
}

// Delete elimina un usuario. Si un cliente o proveedor lo referencia devuelve ErrProtected.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return deleteErr("delete user", err)
	}
	return rowsAffected(tag)
}

// IsReferenced indica si algún cliente o proveedor apunta al usuario.
func (r *UserRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE user_id = $1)
		    OR EXISTS (SELECT 1 FROM suppliers WHERE user_id = $1)`, id,
	).Scan(&ok)
	if err != nil {
		return false, domain.NewStorageError("user references", err)
	}
	return ok, nil
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewStorageError(op, err)
	}
	return u, nil
}

func (r *UserRepo) findMany(ctx context.Context, op, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		list = append(list, u)
	}
	return list, domain.NewStorageError(op, rows.Err())
}

// inTx ejecuta fn en una transacción; los errores de dominio de fn se devuelven tal cual.
func (r *UserRepo) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.NewStorageError(op+": begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.NewStorageError(op+": commit", err)
	}
	return nil
}

// setGroups reemplaza las membresías del usuario por los grupos indicados (por nombre).
func setGroups(ctx context.Context, tx pgx.Tx, userID string, names []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_groups WHERE user_id = $1`, userID); err != nil {
		return domain.NewStorageError("clear user groups", err)
	}
	if len(names) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		SELECT $1, id FROM auth_groups WHERE name = ANY($2)`, userID, names)
	if err != nil {
		return domain.NewStorageError("set user groups", err)
	}
	if int(tag.RowsAffected()) != len(names) {
		return fmt.Errorf("set user groups: %w", domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsSuperuser, &u.IsActive, &u.DateJoined, &u.Groups,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
