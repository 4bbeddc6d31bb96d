package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_SkipsOnSuccess(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 50})

	start := time.Now()
	td.Wait(true)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestTimingDelay_DelaysOnFailure(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 20})

	start := time.Now()
	td.Wait(false)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTimingDelay_WaitFromCountsElapsed(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 30})

	start := time.Now().Add(-40 * time.Millisecond)
	before := time.Now()
	td.WaitFrom(start, false)
	// Target already elapsed: no extra sleep.
	assert.Less(t, time.Since(before), 10*time.Millisecond)
}

func TestCryptoRandIntn_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		n, err := cryptoRandIntn(10)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 10)
	}

	n, err := cryptoRandIntn(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
