package models

import "time"

// Account is the authenticatable record. The identity fields are always
// present; the login-history fields below them are optional "magic
// columns". Whether each one is actually read or written is decided by
// the ColumnSet the session layer was configured with, never by probing
// the record itself.
type Account struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string // NULL for accounts that authenticate by other means
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LoginCount       int
	FailedLoginCount int
	LastRequestAt    *time.Time
	CurrentLoginAt   *time.Time
	LastLoginAt      *time.Time
	CurrentLoginIP   string
	LastLoginIP      string
}

// ColumnSet declares which magic columns the account schema exposes.
// An undeclared column is silently skipped by every bookkeeping
// operation; absence is a no-op, not an error.
type ColumnSet struct {
	LoginCount       bool
	FailedLoginCount bool
	LastRequestAt    bool
	CurrentLoginAt   bool
	LastLoginAt      bool
	CurrentLoginIP   bool
	LastLoginIP      bool
}

// AllColumns returns a ColumnSet with every magic column declared.
// This matches the accounts table shipped in migrations.
func AllColumns() ColumnSet {
	return ColumnSet{
		LoginCount:       true,
		FailedLoginCount: true,
		LastRequestAt:    true,
		CurrentLoginAt:   true,
		LastLoginAt:      true,
		CurrentLoginIP:   true,
		LastLoginIP:      true,
	}
}
