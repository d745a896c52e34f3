package session

import (
	"sync"
	"time"
)

// DefaultResendWindow is the cooldown applied after a throttled send.
const DefaultResendWindow = 60

// Countdown gates a repeatable side-effecting action (resend email, resend
// verification) behind a cooldown window. It is a cooperative single-flight
// timer: the flow that starts it owns the handle, must check IsActive before
// acting (the countdown never queues or defers the call), and must Stop it
// on teardown so the recurring task cannot outlive its owner.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	window    int
	interval  time.Duration
	stop      chan struct{}
}

// NewCountdown returns a countdown with the default 60 second window, ready
// (inactive) until Start is called.
func NewCountdown() *Countdown {
	return NewCountdownWithInterval(DefaultResendWindow, time.Second)
}

// NewCountdownWithInterval customizes window size and tick interval. Tests
// use short intervals; production flows use NewCountdown.
func NewCountdownWithInterval(window int, interval time.Duration) *Countdown {
	if window <= 0 {
		window = DefaultResendWindow
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		window:   window,
		interval: interval,
	}
}

// Start begins (or restarts) the cooldown window. A Start while the window
// is already running restarts it rather than stacking a second task.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	c.remaining = c.window
	c.stop = make(chan struct{})

	go c.run(c.stop)
}

// IsActive reports whether the window is still counting down. Callers must
// check this before triggering the throttled action.
func (c *Countdown) IsActive() bool {
	return c.Remaining() > 0
}

// Remaining returns the number of seconds left in the window, zero when the
// action is re-enabled.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop cancels the recurring task and re-enables the action. Owners must
// call it when the owning flow is torn down before the window reaches zero.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.remaining = 0
}

func (c *Countdown) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.tick(stop) {
				return
			}
		}
	}
}

// tick decrements once and reports whether the task should stop itself.
func (c *Countdown) tick(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A restart swapped the channel out from under this task; let the old
	// task die without touching the new window.
	if c.stop != stop {
		return true
	}

	if c.remaining > 0 {
		c.remaining--
	}

	if c.remaining == 0 {
		c.stop = nil
		return true
	}

	return false
}
