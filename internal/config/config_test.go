package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.GinLogging)
	assert.Equal(t, "contacts-service", cfg.JWTIssuer)
	assert.Equal(t, 15*time.Minute, cfg.TokenCacheTTL)
	assert.Equal(t, "dirk:bullo92@tcp(localhost:3306)/test?parseTime=true", cfg.DSN())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("PORT", "9090")
	t.Setenv("DBHOST", "db:3307")
	t.Setenv("DBNAME", "contacts")
	t.Setenv("GIN_LOGGING", "OFF")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("TOKEN_CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.GinLogging)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.TokenCacheTTL)
	assert.Contains(t, cfg.DSN(), "@tcp(db:3307)/contacts?")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad port", map[string]string{"JWT_SECRET": secret, "PORT": "eighty"}},
		{"bad ttl", map[string]string{"JWT_SECRET": secret, "TOKEN_CACHE_TTL": "-5m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabaseWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")
	t.Setenv("DBHOST", "localhost:3306")
	t.Setenv("DBNAME", "test")

	cfg := LoadDatabase()
	assert.Equal(t, "dirk:bullo92@tcp(localhost:3306)/test?parseTime=true", cfg.DSN())
}
