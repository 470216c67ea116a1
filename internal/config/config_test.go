package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Postgres: PostgresConfig{DSN: "postgres://localhost/driverhub"},
		Session: SessionConfig{
			Secret: strings.Repeat("s", 32),
			TTL:    8 * time.Hour,
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsShortSessionSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Secret = "too-short"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.secret")
}

func TestValidateRejectsMissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.DSN = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Session.TTL = 0
	require.Error(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DRIVERHUB_SESSION_SECRET", strings.Repeat("x", 40))
	t.Setenv("DRIVERHUB_POSTGRES_DSN", "postgres://localhost/driverhub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5, cfg.RateLimit.LoginLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.LoginWindow)
	assert.Equal(t, 100, cfg.RateLimit.GeneralLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.GeneralWindow)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "dms_sid", cfg.Session.CookieName)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.False(t, cfg.Redis.Enabled)
}
