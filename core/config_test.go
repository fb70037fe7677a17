package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"PORT", "DATABASE_URL", "POSTGRES_URL", "REDIS_URL", "JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "ALLOWED_ORIGINS"} {
		t.Setenv(name, "")
	}

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Empty(t, cfg.JWTSecret)
	require.Empty(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_TTL", "72h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "from-env", cfg.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 72*time.Hour, cfg.RefreshTTL)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestDurationFromEnvInvalid(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "bogus")
	require.Equal(t, time.Hour, durationFromEnv("ACCESS_TOKEN_TTL", time.Hour))

	t.Setenv("ACCESS_TOKEN_TTL", "-5m")
	require.Equal(t, time.Hour, durationFromEnv("ACCESS_TOKEN_TTL", time.Hour))
}
