package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "UTC")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "es", cfg.Report.Locale)
	assert.Equal(t, 256, cfg.Notify.Buffer)
	assert.Equal(t, "postgres://postgres:@localhost:5432/inventario_ledger?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MIGRATE", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("REPORT_TIMEZONE", "America/Bogota")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())

	loc, err := cfg.Report.Location()
	require.NoError(t, err)
	_, offset := time.Date(2024, 3, 15, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestLoad_Invalido(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("APP_ENV", "development")
	t.Setenv("REPORT_TIMEZONE", "Marte/Olympus")
	_, err = config.Load()
	assert.Error(t, err)
}
