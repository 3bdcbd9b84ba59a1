package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.PoolSize)
	assert.Equal(t, 30, cfg.MaxOverflow)
	assert.Equal(t, 30*time.Second, cfg.PoolTimeout)
	assert.Equal(t, 30*time.Minute, cfg.PoolRecycle)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 15000, cfg.StatementTimeoutMS)
	assert.Equal(t, time.Minute, cfg.DataVersionTTL)
	assert.Equal(t, 3*time.Minute, cfg.QueryTTL)
	assert.Equal(t, 50, cfg.MaxBrandFilter)
	assert.Equal(t, "stockzero-exports", cfg.MinioBucket)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_URL", "postgres://direct")
	t.Setenv("POOL_SIZE", "5")
	t.Setenv("QDF_TTL", "30")
	t.Setenv("APP_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://direct", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.PoolSize)
	assert.Equal(t, 30*time.Second, cfg.QueryTTL)
	assert.Equal(t, "secret", cfg.AppToken)
}

func TestLoadPrefersAppEndpoint(t *testing.T) {
	t.Setenv("DB_URL", "postgres://direct")
	t.Setenv("DB_URL_APP", "postgres://pooled")
	t.Setenv("DB_URL_FALLBACK", "postgres://spare")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://pooled", cfg.DatabaseURL)
	assert.Equal(t, "postgres://spare", cfg.DatabaseFallbackURL)
}
