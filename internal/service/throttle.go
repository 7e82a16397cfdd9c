package service

import "time"

// DefaultIssueCooldown is the minimum time between successive token
// issuances for the same owner unless a caller overrides it.
const DefaultIssueCooldown = 60 * time.Second

// Throttle decides whether a new token may be issued given the time of the
// last issuance. It holds no per-owner state; callers supply the last
// issuance time they read from the token store.
type Throttle struct {
	cooldown time.Duration
	now      func() time.Time
}

// NewThrottle creates a Throttle with the given default cooldown window.
// A non-positive cooldown falls back to DefaultIssueCooldown.
func NewThrottle(cooldown time.Duration) *Throttle {
	if cooldown <= 0 {
		cooldown = DefaultIssueCooldown
	}
	return &Throttle{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// ShouldIssue reports whether a new token may be issued. It returns false
// only when lastIssuedAt is set and still inside the cooldown window. A
// non-positive cooldown argument uses the configured default.
func (t *Throttle) ShouldIssue(lastIssuedAt *time.Time, cooldown time.Duration) bool {
	if lastIssuedAt == nil {
		return true
	}
	if cooldown <= 0 {
		cooldown = t.cooldown
	}
	return !t.now().Before(lastIssuedAt.Add(cooldown))
}
