// Package clock provides the clocks that feed the time-trait adapter.
// Instead of calling time.Now() directly, lock and deadline code reads a Clock,
// which can be replaced in tests to control time-dependent behavior.
//
// RealClock and ManualClock report time.Time and satisfy
// timetraits.Clock[time.Time, time.Duration]. TickClock reports Stamp values
// counted in an arbitrary tick period and satisfies
// timetraits.Clock[Stamp, Ticks].
package clock

import (
	"sync"
	"time"

	"github.com/mrz1836/relock/internal/timetraits"
)

// Clock is an interface for time operations.
// This allows code to be tested with mock clocks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
// The reading carries Go's monotonic component, so differences between
// readings are immune to wall clock steps.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Period returns the resolution of time.Duration.
func (RealClock) Period() timetraits.Period {
	return timetraits.Nanosecond
}

// ManualClock is a Clock whose time only moves when told to.
// It is safe for concurrent use.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManual creates a manual clock set to t.
func NewManual(t time.Time) *ManualClock {
	return &ManualClock{current: t}
}

// Now returns the manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Period returns the resolution of time.Duration.
func (c *ManualClock) Period() timetraits.Period {
	return timetraits.Nanosecond
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Ensure the clocks implement the interfaces they are used through.
var (
	_ Clock                                          = RealClock{}
	_ Clock                                          = (*ManualClock)(nil)
	_ timetraits.Clock[time.Time, time.Duration]     = RealClock{}
	_ timetraits.Clock[time.Time, time.Duration]     = (*ManualClock)(nil)
	_ timetraits.Clock[Stamp, Ticks]                 = (*TickClock)(nil)
	_ timetraits.TimePoint[Stamp, Ticks]             = Stamp(0)
	_ timetraits.TimePoint[time.Time, time.Duration] = time.Time{}
)
