package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "HTTP_PORT", "REDIS_ADDRESS", "REDIS_TTL", "REDIS_DB", "LOG_LEVEL", "TOKEN_SECRET"} {
		t.Setenv(key, "")
	}

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "bikes.db", cfg.DB.DSN())
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, "production", cfg.HTTP.Env)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNew_Postgres(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "bikes")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "registry")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_TTL", "1m")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t,
		"host=db port=5433 user=bikes password=secret dbname=registry sslmode=disable",
		cfg.DB.DSN())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad redis db", "REDIS_DB", "zero"},
		{"bad redis ttl", "REDIS_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "production")
			t.Setenv(tt.key, tt.val)

			_, err := New()
			assert.Error(t, err)
		})
	}
}
