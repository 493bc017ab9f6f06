package ledger

import (
	"sync"
	"time"
)

const (
	defaultTripThreshold = 3
	defaultCooldown      = 15 * time.Second
)

// breaker trips the remote gateway path after consecutive failures so that a
// down gateway fails fast instead of burning the full client timeout on every
// verification. While tripped, one probe call is let through per cooldown
// window; a successful probe closes the circuit again.
type breaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	cooldown  time.Duration
	openUntil time.Time
	now       func() time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = defaultTripThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// allow reports whether a call may proceed. When the circuit is open it
// returns false until the cooldown elapses, then admits a single probe and
// re-arms the window.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	b.openUntil = b.now().Add(b.cooldown)
	return true
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.openUntil = time.Time{}
}

func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures == b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
	}
}
