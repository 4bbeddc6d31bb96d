package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vestibule-auth/vestibule/internal/models"
)

func TestNewConfig_Defaults(t *testing.T) {
	schema := Schema{LoginField: "login", EmailField: "email", Columns: models.AllColumns()}
	cfg := NewConfig(schema, Options{})

	assert.Equal(t, FindBySmartCaseLogin, cfg.FindByLoginMethod)
	assert.Equal(t, DefaultVerifyMethod, cfg.VerifyPasswordMethod)
	assert.Equal(t, "login", cfg.LoginField)
	assert.Equal(t, "password", cfg.PasswordField)
	assert.False(t, cfg.GeneralizeCredentialsErrors)
	assert.Equal(t, time.Duration(0), cfg.LastRequestAtThreshold)
	assert.True(t, cfg.HasLoginField())
}

func TestNewConfig_EmailFallback(t *testing.T) {
	schema := Schema{EmailField: "email"}
	cfg := NewConfig(schema, Options{})

	assert.Equal(t, "email", cfg.LoginField)
	assert.Equal(t, "password", cfg.PasswordField)
}

func TestNewConfig_NoLoginField(t *testing.T) {
	cfg := NewConfig(Schema{}, Options{})

	assert.False(t, cfg.HasLoginField())
	// No login field means no password field either.
	assert.Equal(t, "", cfg.PasswordField)
}

func TestNewConfig_Overrides(t *testing.T) {
	schema := Schema{LoginField: "login", EmailField: "email"}
	cfg := NewConfig(schema, Options{
		FindByLoginMethod:      FindByLogin,
		VerifyPasswordMethod:   "argon2id",
		LoginField:             "member_name",
		PasswordField:          "passphrase",
		LastRequestAtThreshold: 10 * time.Minute,
	})

	assert.Equal(t, FindByLogin, cfg.FindByLoginMethod)
	assert.Equal(t, "argon2id", cfg.VerifyPasswordMethod)
	assert.Equal(t, "member_name", cfg.LoginField)
	assert.Equal(t, "passphrase", cfg.PasswordField)
	assert.Equal(t, 10*time.Minute, cfg.LastRequestAtThreshold)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Login", humanize("login"))
	assert.Equal(t, "Member name", humanize("member_name"))
	assert.Equal(t, "", humanize(""))
}
