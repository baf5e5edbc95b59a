package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AUTH_ALLOWED_ROLES", "")
	t.Setenv("PUBLIC_RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"admin", "agent"}, cfg.Auth.AllowedRoles)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "GN", cfg.Import.PhoneRegion)
	assert.Empty(t, cfg.RateLimit.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_ALLOWED_ROLES", "admin, supervisor ,")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PUBLIC_RATE_LIMIT_WINDOW_SECONDS", "60")
	t.Setenv("ALLOWED_ORIGINS", "https://mairie.example.org,https://agents.example.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "supervisor"}, cfg.Auth.AllowedRoles)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Len(t, cfg.CORS.AllowedOrigins, 2)
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.5"}, cfg.RateLimit.TrustedProxies)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "civic", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=civic sslmode=require", cfg.DatabaseDSN())
}
