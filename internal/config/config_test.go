package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret")
	t.Setenv("DB_PASSWORD", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "vestibule", cfg.Database.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, 100, cfg.Auth.TimingDelayBaseMs)

	assert.Empty(t, cfg.Session.LoginField)
	assert.Empty(t, cfg.Session.FindByLoginMethod)
	assert.False(t, cfg.Session.GeneralizeCredentialsErrors)
	assert.Equal(t, time.Duration(0), cfg.Session.LastRequestAtThreshold)
}

func TestLoad_SessionOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("SESSION_LOGIN_FIELD", "email")
	t.Setenv("SESSION_GENERALIZE_CREDENTIALS_ERRORS", "true")
	t.Setenv("SESSION_GENERAL_CREDENTIALS_ERROR_MESSAGE", "Nope.")
	t.Setenv("SESSION_LAST_REQUEST_AT_THRESHOLD", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "email", cfg.Session.LoginField)
	assert.True(t, cfg.Session.GeneralizeCredentialsErrors)
	assert.Equal(t, "Nope.", cfg.Session.GeneralCredentialsErrorMessage)
	assert.Equal(t, 10*time.Minute, cfg.Session.LastRequestAtThreshold)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_WeakJWTSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ProductionRequiresLongerSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "twenty-char-secret!!")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32")
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Name:     "vestibule",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=pw dbname=vestibule sslmode=require",
		cfg.DSN())
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.TrustedProxies)
}
