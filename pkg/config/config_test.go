package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, ":memory:", cfg.DB.SQLitePath)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
