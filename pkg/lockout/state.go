package lockout

import "time"

// State is the attempt state persisted across restarts: the failed-attempt
// count and the absolute lockout expiry. A zero LockedUntil means no window
// is pending.
type State struct {
	FailedCount int
	LockedUntil time.Time
}

// Store persists exactly two named values: the failed-attempt counter and
// the lockout-expiry epoch millis. Load must recover corrupt values as the
// zero state (fail-open locally; the server count stays authoritative).
type Store interface {
	Load() State
	Save(State) error
}
