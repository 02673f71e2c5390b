package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	throttle := newThrottleWithClock(5*time.Second, func() time.Time { return now })

	assert.True(t, throttle.Allow("player-1"), "first sample always passes")
	assert.False(t, throttle.Allow("player-1"), "immediate resample is dropped")

	now = now.Add(4999 * time.Millisecond)
	assert.False(t, throttle.Allow("player-1"), "just under the window is dropped")

	now = now.Add(1 * time.Millisecond)
	assert.True(t, throttle.Allow("player-1"), "window elapsed")
}

func TestThrottlePerPlayerInstance(t *testing.T) {
	now := time.Unix(1000, 0)
	throttle := newThrottleWithClock(5*time.Second, func() time.Time { return now })

	assert.True(t, throttle.Allow("player-1"))
	assert.True(t, throttle.Allow("player-2"), "windows are independent per instance")
	assert.False(t, throttle.Allow("player-1"))
	assert.False(t, throttle.Allow("player-2"))
}

func TestThrottlePruneDropsExpiredWindows(t *testing.T) {
	now := time.Unix(1000, 0)
	throttle := newThrottleWithClock(5*time.Second, func() time.Time { return now })

	assert.True(t, throttle.Allow("player-1"))
	now = now.Add(2 * time.Second)
	assert.True(t, throttle.Allow("player-2"))

	// player-1's window has elapsed, player-2's has not.
	now = now.Add(3 * time.Second)
	throttle.prune()

	throttle.mu.Lock()
	_, gone := throttle.last["player-1"]
	_, kept := throttle.last["player-2"]
	throttle.mu.Unlock()

	assert.False(t, gone, "expired window should be swept")
	assert.True(t, kept, "open window must survive the sweep")

	// Pruning never admits a sample early.
	assert.False(t, throttle.Allow("player-2"))
	assert.True(t, throttle.Allow("player-1"))
}

func TestThrottleForgetResetsWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	throttle := newThrottleWithClock(5*time.Second, func() time.Time { return now })

	assert.True(t, throttle.Allow("player-1"))
	assert.False(t, throttle.Allow("player-1"))

	// Navigating away and back creates a fresh window.
	throttle.Forget("player-1")
	assert.True(t, throttle.Allow("player-1"))
}
