package carrierapi

import (
	"sync"
	"time"
)

// breaker is a per-carrier circuit breaker counting consecutive failures.
// After threshold failures the breaker opens for the cooldown period and
// rejects calls without touching the network. The first call after the
// cooldown is let through as a probe.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	failures  int
	openUntil time.Time
}

func newBreaker(threshold int, cooldown time.Duration, now func() time.Time) *breaker {
	return &breaker{threshold: threshold, cooldown: cooldown, now: now}
}

// allow reports whether a call may proceed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return !b.now().Before(b.openUntil)
}

// succeed resets the failure streak and closes the breaker.
func (b *breaker) succeed() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.openUntil = time.Time{}
}

// fail records one failed call and opens the breaker when the streak reaches
// the threshold.
func (b *breaker) fail() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
		b.failures = 0
	}
}
