package session

import (
	"time"

	"github.com/vestibule-auth/vestibule/internal/models"
)

// Lookup method names understood by Store implementations.
const (
	// FindByLogin matches the login field exactly.
	FindByLogin = "find_by_login"
	// FindBySmartCaseLogin matches the login field case-insensitively,
	// so "Ben" and "ben" identify the same account.
	FindBySmartCaseLogin = "find_by_smart_case_login"
)

// DefaultVerifyMethod is the password verifier used when none is
// configured. Verifiers are registered by name in pkg/auth.
const DefaultVerifyMethod = "bcrypt"

// DefaultPasswordField is the password field name assumed whenever a
// login field resolved and no override was given.
const DefaultPasswordField = "password"

// Schema describes what the account type declares: which field carries
// the login identifier, which carries the email address, and which
// magic columns exist. It is resolved once per session type; the
// session layer never probes the record at runtime.
type Schema struct {
	LoginField string // "" if the account type has no login field
	EmailField string // "" if the account type has no email field
	Columns    models.ColumnSet
}

// Options are the caller-tunable knobs for a session type. The zero
// value asks for all defaults.
type Options struct {
	FindByLoginMethod    string
	VerifyPasswordMethod string

	// LoginField and PasswordField override the names resolved from
	// the schema.
	LoginField    string
	PasswordField string

	// GeneralizeCredentialsErrors collapses lookup-miss and wrong-
	// password into one non-field error so callers cannot enumerate
	// accounts. GeneralCredentialsErrorMessage optionally fixes the
	// text; empty means the computed default.
	GeneralizeCredentialsErrors    bool
	GeneralCredentialsErrorMessage string

	// LastRequestAtThreshold is the minimum time between
	// last_request_at updates on continued requests. Zero updates on
	// every request.
	LastRequestAtThreshold time.Duration

	Messages *Catalog
}

// Config is the resolved configuration for one session type. Build it
// once with NewConfig and share it across attempts; it is never
// mutated afterwards.
type Config struct {
	FindByLoginMethod    string
	VerifyPasswordMethod string
	LoginField           string
	PasswordField        string

	GeneralizeCredentialsErrors    bool
	GeneralCredentialsErrorMessage string

	LastRequestAtThreshold time.Duration
	Columns                models.ColumnSet
	Messages               *Catalog
}

// NewConfig resolves Options against a Schema. The login field falls
// back to the declared login field, then the declared email field; if
// neither exists, password authentication is inert for this session
// type. The password field defaults to "password" only when a login
// field resolved.
func NewConfig(schema Schema, opts Options) *Config {
	cfg := &Config{
		FindByLoginMethod:              opts.FindByLoginMethod,
		VerifyPasswordMethod:           opts.VerifyPasswordMethod,
		LoginField:                     opts.LoginField,
		PasswordField:                  opts.PasswordField,
		GeneralizeCredentialsErrors:    opts.GeneralizeCredentialsErrors,
		GeneralCredentialsErrorMessage: opts.GeneralCredentialsErrorMessage,
		LastRequestAtThreshold:         opts.LastRequestAtThreshold,
		Columns:                        schema.Columns,
		Messages:                       opts.Messages,
	}

	if cfg.FindByLoginMethod == "" {
		cfg.FindByLoginMethod = FindBySmartCaseLogin
	}
	if cfg.VerifyPasswordMethod == "" {
		cfg.VerifyPasswordMethod = DefaultVerifyMethod
	}
	if cfg.LoginField == "" {
		cfg.LoginField = schema.LoginField
	}
	if cfg.LoginField == "" {
		cfg.LoginField = schema.EmailField
	}
	if cfg.PasswordField == "" && cfg.LoginField != "" {
		cfg.PasswordField = DefaultPasswordField
	}

	return cfg
}

// HasLoginField reports whether a login field resolved; without one
// this session type cannot attempt password authentication.
func (c *Config) HasLoginField() bool {
	return c.LoginField != ""
}
