package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 14 // OWASP 2026 recommendation

// Verifier checks a submitted password against a stored credential and
// reports whether it matches. A non-nil error means the check itself
// failed (malformed hash, unavailable backend), not a mismatch.
type Verifier func(hash, password string) (bool, error)

// verifiers maps verify-method names to implementations. The session
// layer selects a verifier by name so deployments can swap the scheme
// through configuration.
var verifiers = map[string]Verifier{
	"bcrypt": verifyBcrypt,
}

// RegisterVerifier adds or replaces a named password verifier. Call
// during initialization, before any attempt runs.
func RegisterVerifier(name string, v Verifier) {
	verifiers[name] = v
}

// LookupVerifier returns the verifier registered under name.
func LookupVerifier(name string) (Verifier, bool) {
	v, ok := verifiers[name]
	return v, ok
}

func verifyBcrypt(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}
