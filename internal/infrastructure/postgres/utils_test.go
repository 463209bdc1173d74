package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

func TestWriteErr_TraduceCodigos(t *testing.T) {
	assert.NoError(t, writeErr("op", nil))
	assert.ErrorIs(t, writeErr("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, writeErr("op", &pgconn.PgError{Code: "23503"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, writeErr("op", &pgconn.PgError{Code: "23514"}), domain.ErrInvalidInput)

	err := writeErr("insert invoice", errors.New("conexión cerrada"))
	assert.True(t, domain.IsStorageError(err))
	assert.Contains(t, err.Error(), "insert invoice")
}

func TestDeleteErr_LlaveForaneaEsProtegido(t *testing.T) {
	assert.ErrorIs(t, deleteErr("op", &pgconn.PgError{Code: "23503"}), domain.ErrProtected)
	assert.True(t, domain.IsStorageError(deleteErr("op", errors.New("x"))))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(pgx.ErrNoRows))
	assert.True(t, isNotFound(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isNotFound(errors.New("otro")))
}

func TestStatsWhere(t *testing.T) {
	where, args := statsWhere(repository.StatsFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	where, args = statsWhere(repository.StatsFilter{Party: entity.PartyCustomer, From: &from, To: &to})
	assert.Equal(t, " WHERE supplier_id IS NULL AND date >= $1 AND date < $2", where)
	assert.Equal(t, []any{from, to}, args)

	where, _ = statsWhere(repository.StatsFilter{Party: entity.PartySupplier})
	assert.Equal(t, " WHERE customer_id IS NULL", where)
}
