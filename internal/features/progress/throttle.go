package progress

import (
	"sync"
	"time"
)

// Throttle drops samples arriving faster than a minimum interval, tracked
// per player instance. Dropped samples are not queued; the next allowed
// sample self-corrects the stored state. A new player instance gets a
// fresh window.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     map[string]time.Time
}

// NewThrottle creates a throttle with the given minimum interval and starts
// a background sweep of expired windows.
func NewThrottle(interval time.Duration) *Throttle {
	t := newThrottleWithClock(interval, time.Now)
	go t.cleanup()
	return t
}

func newThrottleWithClock(interval time.Duration, now func() time.Time) *Throttle {
	return &Throttle{
		interval: interval,
		now:      now,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether a sample for the given player instance may be
// persisted, and if so starts a new window.
func (t *Throttle) Allow(playerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.last[playerID]; ok && now.Sub(last) < t.interval {
		return false
	}

	t.last[playerID] = now
	return true
}

// cleanup periodically drops expired windows so abandoned player instances
// do not accumulate in the map.
func (t *Throttle) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		t.prune()
	}
}

// prune removes entries whose window has elapsed. An expired window behaves
// identically to an absent one, so this only bounds memory.
func (t *Throttle) prune() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for playerID, last := range t.last {
		if now.Sub(last) >= t.interval {
			delete(t.last, playerID)
		}
	}
}

// Forget clears a player instance's window, e.g. when its connection goes
// away.
func (t *Throttle) Forget(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, playerID)
}
