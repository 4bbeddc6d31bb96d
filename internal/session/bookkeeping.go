package session

import (
	"time"

	"github.com/vestibule-auth/vestibule/internal/models"
)

// Bookkeeper applies login-history updates to an account record. Every
// write is gated by the column set: a column the schema does not
// declare is skipped silently.
//
// The three entry points have different gating rules and field sets.
// RecordLogin runs on an explicit, credential-checked login;
// TouchRequest runs on any authenticated request (cookie, token or
// basic-auth continuation); RecordFailure runs on a rejected password.
type Bookkeeper struct {
	columns   models.ColumnSet
	threshold time.Duration
}

// NewBookkeeper builds a bookkeeper for the given column set.
// threshold is the minimum time between last_request_at updates on
// continued requests; zero means update every request.
func NewBookkeeper(columns models.ColumnSet, threshold time.Duration) *Bookkeeper {
	return &Bookkeeper{columns: columns, threshold: threshold}
}

// RecordLogin applies the explicit-login update set at time now from
// the given client IP: bump login_count, clear failed_login_count,
// shift the current login timestamp and IP into their last_* slots,
// and stamp last_request_at (an explicit login always counts as a
// request). The failed-login counter resets only here, never on
// continued requests; lockout policy depends on that asymmetry.
func (b *Bookkeeper) RecordLogin(acct *models.Account, now time.Time, ip string) {
	if b.columns.LoginCount {
		acct.LoginCount++
	}
	if b.columns.FailedLoginCount {
		acct.FailedLoginCount = 0
	}

	if b.columns.LastLoginAt && b.columns.CurrentLoginAt {
		acct.LastLoginAt = acct.CurrentLoginAt
	}
	if b.columns.CurrentLoginAt {
		t := now
		acct.CurrentLoginAt = &t
	}

	if b.columns.LastLoginIP && b.columns.CurrentLoginIP {
		acct.LastLoginIP = acct.CurrentLoginIP
	}
	if b.columns.CurrentLoginIP {
		acct.CurrentLoginIP = ip
	}

	if b.columns.LastRequestAt {
		t := now
		acct.LastRequestAt = &t
	}
}

// TouchRequest stamps last_request_at for a continued authenticated
// request and reports whether it wrote anything. The update happens
// only if the column is declared, the request layer's allowed
// predicate (nil means allowed) does not veto it, and the configured
// threshold has elapsed since the stored value.
func (b *Bookkeeper) TouchRequest(acct *models.Account, now time.Time, allowed func() bool) bool {
	if !b.columns.LastRequestAt {
		return false
	}
	if allowed != nil && !allowed() {
		return false
	}
	if b.threshold > 0 && acct.LastRequestAt != nil && now.Sub(*acct.LastRequestAt) < b.threshold {
		return false
	}
	t := now
	acct.LastRequestAt = &t
	return true
}

// RecordFailure bumps failed_login_count after a rejected password.
// Lockout enforcement reads this counter elsewhere.
func (b *Bookkeeper) RecordFailure(acct *models.Account) {
	if b.columns.FailedLoginCount {
		acct.FailedLoginCount++
	}
}
