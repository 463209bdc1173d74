package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/infrastructure/store"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func TestOpen_SQLite(t *testing.T) {
	repos, err := store.Open(context.Background(), config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:store_open?mode=memory&cache=shared",
	}, logger.Nop())
	require.NoError(t, err)
	defer repos.Close()

	assert.NoError(t, repos.Ping(context.Background()))
	list, err := repos.Customers.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), config.DBConfig{Driver: "mysql"}, logger.Nop())
	assert.Error(t, err)
}
