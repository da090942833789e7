package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10, cfg.RecipesPerPage)
	assert.Equal(t, 600, cfg.ResetTTLSecs)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("RECIPES_PER_PAGE", "5")
	t.Setenv("DATABASE_DSN", "postgres://u:p@h/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 5, cfg.RecipesPerPage)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DatabaseDSN)
}

func TestLoadClampsPageSize(t *testing.T) {
	t.Setenv("RECIPES_PER_PAGE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RecipesPerPage)
}
