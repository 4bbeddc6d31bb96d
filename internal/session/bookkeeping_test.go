package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestibule-auth/vestibule/internal/models"
)

func TestBookkeeper_RecordLogin_AllColumns(t *testing.T) {
	prevLogin := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	acct := &models.Account{
		LoginCount:       4,
		FailedLoginCount: 2,
		CurrentLoginAt:   &prevLogin,
		CurrentLoginIP:   "192.168.1.9",
	}

	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	bk := NewBookkeeper(models.AllColumns(), 0)
	bk.RecordLogin(acct, now, "10.0.0.1")

	assert.Equal(t, 5, acct.LoginCount)
	assert.Equal(t, 0, acct.FailedLoginCount)

	require.NotNil(t, acct.LastLoginAt)
	assert.Equal(t, prevLogin, *acct.LastLoginAt)
	require.NotNil(t, acct.CurrentLoginAt)
	assert.Equal(t, now, *acct.CurrentLoginAt)

	assert.Equal(t, "192.168.1.9", acct.LastLoginIP)
	assert.Equal(t, "10.0.0.1", acct.CurrentLoginIP)

	require.NotNil(t, acct.LastRequestAt)
	assert.Equal(t, now, *acct.LastRequestAt)
}

func TestBookkeeper_RecordLogin_FirstLogin(t *testing.T) {
	acct := &models.Account{}
	now := time.Now()

	bk := NewBookkeeper(models.AllColumns(), 0)
	bk.RecordLogin(acct, now, "10.0.0.1")

	assert.Equal(t, 1, acct.LoginCount)
	assert.Nil(t, acct.LastLoginAt)
	require.NotNil(t, acct.CurrentLoginAt)
	assert.Equal(t, "", acct.LastLoginIP)
	assert.Equal(t, "10.0.0.1", acct.CurrentLoginIP)
}

func TestBookkeeper_NoColumns_NoOps(t *testing.T) {
	acct := &models.Account{}
	bk := NewBookkeeper(models.ColumnSet{}, 0)

	bk.RecordLogin(acct, time.Now(), "10.0.0.1")
	bk.RecordFailure(acct)
	updated := bk.TouchRequest(acct, time.Now(), nil)

	assert.False(t, updated)
	assert.Equal(t, models.Account{}, *acct)
}

func TestBookkeeper_ShiftRequiresBothColumns(t *testing.T) {
	prev := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	acct := &models.Account{CurrentLoginAt: &prev, CurrentLoginIP: "192.168.1.9"}

	// last_login_at / last_login_ip undeclared: current values must
	// still advance, but nothing shifts into the last_* slots.
	cols := models.AllColumns()
	cols.LastLoginAt = false
	cols.LastLoginIP = false

	now := time.Now()
	bk := NewBookkeeper(cols, 0)
	bk.RecordLogin(acct, now, "10.0.0.1")

	assert.Nil(t, acct.LastLoginAt)
	assert.Equal(t, "", acct.LastLoginIP)
	require.NotNil(t, acct.CurrentLoginAt)
	assert.Equal(t, now, *acct.CurrentLoginAt)
	assert.Equal(t, "10.0.0.1", acct.CurrentLoginIP)
}

func TestBookkeeper_RecordFailure(t *testing.T) {
	acct := &models.Account{FailedLoginCount: 2}
	bk := NewBookkeeper(models.AllColumns(), 0)

	bk.RecordFailure(acct)
	assert.Equal(t, 3, acct.FailedLoginCount)

	// Failure never counts as a request or a login.
	assert.Nil(t, acct.LastRequestAt)
	assert.Equal(t, 0, acct.LoginCount)
}

func TestBookkeeper_TouchRequest_Threshold(t *testing.T) {
	bk := NewBookkeeper(models.AllColumns(), 60*time.Second)

	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	acct := &models.Account{}

	// No stored value yet: always updates.
	require.True(t, bk.TouchRequest(acct, base, nil))
	require.NotNil(t, acct.LastRequestAt)

	// 10s later: under the threshold, unchanged.
	assert.False(t, bk.TouchRequest(acct, base.Add(10*time.Second), nil))
	assert.Equal(t, base, *acct.LastRequestAt)

	// 70s later: past the threshold, updates.
	assert.True(t, bk.TouchRequest(acct, base.Add(70*time.Second), nil))
	assert.Equal(t, base.Add(70*time.Second), *acct.LastRequestAt)
}

func TestBookkeeper_TouchRequest_ZeroThreshold(t *testing.T) {
	bk := NewBookkeeper(models.AllColumns(), 0)
	base := time.Now()
	acct := &models.Account{LastRequestAt: &base}

	next := base.Add(time.Second)
	assert.True(t, bk.TouchRequest(acct, next, nil))
	assert.Equal(t, next, *acct.LastRequestAt)
}

func TestBookkeeper_TouchRequest_VetoedByRequestLayer(t *testing.T) {
	bk := NewBookkeeper(models.AllColumns(), 0)
	acct := &models.Account{}

	updated := bk.TouchRequest(acct, time.Now(), func() bool { return false })
	assert.False(t, updated)
	assert.Nil(t, acct.LastRequestAt)
}

func TestBookkeeper_TouchRequest_NeverResetsFailureCount(t *testing.T) {
	bk := NewBookkeeper(models.AllColumns(), 0)
	acct := &models.Account{FailedLoginCount: 3}

	require.True(t, bk.TouchRequest(acct, time.Now(), nil))
	assert.Equal(t, 3, acct.FailedLoginCount)
}
