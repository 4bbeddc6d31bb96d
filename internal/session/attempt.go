package session

import (
	"context"
	"errors"

	"github.com/vestibule-auth/vestibule/internal/models"
)

// ProtectedPassword is the placeholder Credentials returns in place of
// the raw submitted password.
const ProtectedPassword = "<protected>"

// Store is the account lookup/verification capability an attempt
// consumes. FindByLogin returns models.ErrNotFound when no account
// matches; any other error is a collaborator fault and propagates out
// of Validate untranslated. VerifyPassword reports whether the
// submitted password matches the account's stored credential.
type Store interface {
	FindByLogin(ctx context.Context, method, login string) (*models.Account, error)
	VerifyPassword(method string, acct *models.Account, password string) (bool, error)
}

// passwordVerdict tracks whether the submitted password has been
// checked yet. An attempt that never reached verification must not
// report an invalid password.
type passwordVerdict int

const (
	passwordUnchecked passwordVerdict = iota
	passwordAccepted
	passwordRejected
)

// Attempt is one submission of credentials against the account store.
// Create a fresh Attempt per authentication request; it holds no state
// worth keeping once the attempt is resolved.
type Attempt struct {
	cfg   *Config
	store Store

	login    string
	password string

	// passwordSubmitted records that the password key was present in a
	// credentials map, even with a blank value. A blank submission must
	// still reach the blank-field checks instead of leaving the
	// attempt inert.
	passwordSubmitted bool

	verdict passwordVerdict
	record  *models.Account
	errs    ErrorList
}

// NewAttempt builds an attempt against the given session config and
// account store.
func NewAttempt(cfg *Config, store Store) *Attempt {
	return &Attempt{cfg: cfg, store: store}
}

// AttemptingPasswordAuth reports whether this attempt should run
// password validation at all: a login field must be configured and a
// login or password must have been submitted. Session types without a
// login field authenticate by other means and are inert here.
func (a *Attempt) AttemptingPasswordAuth() bool {
	if !a.cfg.HasLoginField() {
		return false
	}
	return a.login != "" || a.password != "" || a.passwordSubmitted
}

// SetCredentials accepts only a plain map, never a raw request object:
// callers must convert request parameters explicitly, which keeps
// unexpected fields from ever reaching the attempt. Exactly the
// configured login and password keys are extracted; blank values are
// ignored and do not overwrite earlier state.
func (a *Attempt) SetCredentials(creds map[string]string) {
	if v := creds[a.cfg.LoginField]; v != "" {
		a.login = v
	}
	if a.cfg.PasswordField == "" {
		return
	}
	if v, ok := creds[a.cfg.PasswordField]; ok {
		a.passwordSubmitted = true
		if v != "" {
			a.password = v
		}
	}
}

// Credentials returns the submitted pair for logging and form
// rendering. The password is always masked; the raw value is reachable
// only through the package-internal accessor.
func (a *Attempt) Credentials() map[string]string {
	if !a.AttemptingPasswordAuth() {
		return map[string]string{}
	}
	return map[string]string{
		a.cfg.LoginField:    a.login,
		a.cfg.PasswordField: ProtectedPassword,
	}
}

// rawPassword is the only accessor for the submitted password.
func (a *Attempt) rawPassword() string {
	return a.password
}

// Validate runs the credential checks in order: blank checks (both
// accumulate), account lookup, password verification. It returns
// (true, nil) when the attempt is authentic, (false, nil) when it
// failed validation (see Errors), and a non-nil error only for
// collaborator faults, which are passed through untranslated.
func (a *Attempt) Validate(ctx context.Context) (bool, error) {
	if !a.AttemptingPasswordAuth() {
		return true, nil
	}

	a.verdict = passwordUnchecked
	a.record = nil
	a.errs = nil

	if a.login == "" {
		a.errs.add(a.cfg.LoginField, KeyLoginBlank, a.cfg.Messages.Message(KeyLoginBlank))
	}
	if a.rawPassword() == "" {
		a.errs.add(a.cfg.PasswordField, KeyPasswordBlank, a.cfg.Messages.Message(KeyPasswordBlank))
	}
	if a.errs.Any() {
		// No lookup for blank input.
		return false, nil
	}

	policy := credentialsPolicy{cfg: a.cfg}

	record, err := a.store.FindByLogin(ctx, a.cfg.FindByLoginMethod, a.login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			policy.emit(&a.errs, a.cfg.LoginField, KeyLoginNotFound)
			return false, nil
		}
		return false, err
	}
	a.record = record

	ok, err := a.store.VerifyPassword(a.cfg.VerifyPasswordMethod, record, a.rawPassword())
	if err != nil {
		return false, err
	}
	if !ok {
		a.verdict = passwordRejected
		policy.emit(&a.errs, a.cfg.PasswordField, KeyPasswordInvalid)
		return false, nil
	}

	a.verdict = passwordAccepted
	return true, nil
}

// InvalidPassword reports whether validation found the account but
// rejected the password. False when validation never reached
// verification.
func (a *Attempt) InvalidPassword() bool {
	return a.verdict == passwordRejected
}

// Record returns the candidate account the lookup found, or nil. It is
// set even when the password was rejected, so failure bookkeeping can
// target the attempted account.
func (a *Attempt) Record() *models.Account {
	return a.record
}

// Errors returns the validation failures from the last Validate call,
// in the order they were recorded.
func (a *Attempt) Errors() ErrorList {
	return a.errs
}
