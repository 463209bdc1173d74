package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/invoicing-api/internal/domain"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

// isNotFound indica que la fila no existe o que el ID no tiene formato UUID (22P02).
func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgCode(err) == "22P02"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// writeErr traduce errores de escritura: 23505 -> ErrDuplicate, 23503 -> ErrInvalidInput
// (referencia inexistente), 23514 -> ErrInvalidInput; el resto es StorageError.
func writeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.Invalid("reference", "la referencia no existe")
	case isCheckViolation(err):
		return domain.Invalid("invoice", "la fila viola una restricción de la tabla")
	}
	return domain.NewStorageError(op, err)
}

// deleteErr traduce errores de borrado: 23503 -> ErrProtected.
func deleteErr(op string, err error) error {
	if isForeignKeyViolation(err) {
		return domain.ErrProtected
	}
	return domain.NewStorageError(op, err)
}

// rowsAffected devuelve ErrNotFound si un UPDATE/DELETE no tocó ninguna fila.
func rowsAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
