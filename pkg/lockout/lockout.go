// Package lockout implements the progressive login-throttle controller. It
// tracks failed submission attempts, maps them onto escalating lockout
// windows, persists the state across restarts, and reconciles the local count
// against the authoritative count the server returns on throttled responses.
package lockout

import (
	"fmt"
	"sync"
	"time"

	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"

	"github.com/easelgate/easelgate/pkg/models"
)

// Lockout escalation thresholds. The duration is a non-decreasing step
// function of the failed-attempt count.
const (
	thresholdShort  = 3
	thresholdMedium = 6
	thresholdLong   = 9

	durationShort  = 60 * time.Second
	durationMedium = 90 * time.Second
	durationLong   = 300 * time.Second
)

// acceptedStatus is the fixed set of response codes that participate in
// attempt counting. Anything else is infrastructure noise, except that
// unexpected non-success codes still count as a failure (see RecordOutcome).
var acceptedStatus = map[int]bool{200: true, 400: true, 401: true, 403: true}

// Duration maps a failed-attempt count onto the lockout window it earns.
func Duration(failedCount int) time.Duration {
	switch {
	case failedCount >= thresholdLong:
		return durationLong
	case failedCount >= thresholdMedium:
		return durationMedium
	case failedCount >= thresholdShort:
		return durationShort
	default:
		return 0
	}
}

// Controller owns the attempt state for this client. It is safe for
// concurrent use; the enforcement loop reads it while submissions write it.
type Controller struct {
	mu    sync.Mutex
	state State
	store Store
	clock func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// NewController creates a controller rehydrated from the given store. A nil
// store keeps the state in memory only.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if store != nil {
		c.state = store.Load()
	}

	return c
}

// RecordOutcome updates the attempt state after one submission attempt.
// An authoritative (failed_attempts, remaining_seconds) pair from the server
// overwrites local state unconditionally. Otherwise a success clears the
// counter, an accepted failure code increments it, and an unexpected
// non-success code increments it too; transport failures never reach this
// method.
func (c *Controller) RecordOutcome(status int, resp *models.AuthResponse, action string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()

	if resp != nil && resp.HasLockoutSync() {
		c.state = State{
			FailedCount: *resp.FailedAttempts,
			LockedUntil: now.Add(time.Duration(*resp.RemainingSeconds) * time.Second),
		}
		c.persist()
		otelzap.L().Info("lockout state synced from server",
			zap.String("action", action),
			zap.Int("failed_attempts", c.state.FailedCount),
			zap.Int("remaining_seconds", *resp.RemainingSeconds),
		)
		return
	}

	if status == 200 {
		c.state = State{}
		c.persist()
		return
	}

	if !acceptedStatus[status] && status >= 200 && status < 400 {
		// 2xx/3xx outside the accepted set carries no failure signal.
		return
	}

	c.state.FailedCount++
	if d := Duration(c.state.FailedCount); d > 0 {
		c.state.LockedUntil = now.Add(d)
	}
	c.persist()

	otelzap.L().Info("failed attempt recorded",
		zap.String("action", action),
		zap.Int("status", status),
		zap.Int("failed_attempts", c.state.FailedCount),
	)
}

// IsLockedOut reports whether a lockout window is currently active.
func (c *Controller) IsLockedOut() bool {
	return c.Remaining() > 0
}

// Remaining returns the time left in the active lockout window, or zero.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.LockedUntil.IsZero() {
		return 0
	}

	remaining := c.state.LockedUntil.Sub(c.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FailedCount returns the current failed-attempt count.
func (c *Controller) FailedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.FailedCount
}

// Reset clears the counter and any pending lockout.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	c.persist()
}

// Reload replaces the in-memory state from the store, used when the persisted
// file changed underneath us.
func (c *Controller) Reload() {
	if c.store == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.store.Load()
}

// WaitMessage formats the remaining lockout as the submit-control countdown
// label: "Wait 45s" under a minute, "Wait 2min 30s" above.
func (c *Controller) WaitMessage() string {
	return FormatWait(c.Remaining())
}

// FormatWait renders a countdown label for the given remaining duration.
func FormatWait(remaining time.Duration) string {
	secs := int(remaining.Round(time.Second) / time.Second)
	if secs <= 0 {
		return ""
	}
	if secs < 60 {
		return fmt.Sprintf("Wait %ds", secs)
	}
	return fmt.Sprintf("Wait %dmin %ds", secs/60, secs%60)
}

func (c *Controller) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.state); err != nil {
		otelzap.L().WithError(err).Warn("failed to persist lockout state")
	}
}
