package clock

import (
	"math"
	"time"

	"github.com/mrz1836/relock/internal/timetraits"
)

// Ticks is a duration counted in a TickClock's period.
type Ticks int64

// Stamp is an instant counted in ticks since the owning TickClock's origin.
type Stamp int64

// Add returns s shifted by d.
func (s Stamp) Add(d Ticks) Stamp {
	return s + Stamp(d)
}

// Sub returns s - u.
func (s Stamp) Sub(u Stamp) Ticks {
	return Ticks(s - u)
}

// Before reports whether s is strictly earlier than u.
func (s Stamp) Before(u Stamp) bool {
	return s < u
}

// TickClock counts time in a fixed tick period, e.g. milliseconds or
// 1/60 second frames, on top of a source Clock. Readings are truncated to
// whole ticks elapsed since the clock was created.
type TickClock struct {
	source Clock
	origin time.Time
	period timetraits.Period
}

// NewTickClock returns a clock counting whole ticks of period on source.
func NewTickClock(source Clock, period timetraits.Period) (*TickClock, error) {
	p, err := timetraits.NewPeriod(period.Num, period.Den)
	if err != nil {
		return nil, err
	}
	return &TickClock{source: source, origin: source.Now(), period: p}, nil
}

// Now returns the ticks elapsed since the clock was created.
// Readings beyond the int64 range saturate.
func (c *TickClock) Now() Stamp {
	return Stamp(c.toTicks(c.source.Now().Sub(c.origin)))
}

// Period returns the tick period.
func (c *TickClock) Period() timetraits.Period {
	return c.period
}

// Ticks converts d to whole ticks of the clock's period, truncated toward zero.
func (c *TickClock) Ticks(d time.Duration) Ticks {
	return c.toTicks(d)
}

// toTicks rescales d into the clock's period, saturating on overflow.
func (c *TickClock) toTicks(d time.Duration) Ticks {
	ticks, err := timetraits.NewPortableDuration(int64(d), timetraits.Nanosecond).In(c.period)
	if err != nil {
		if d < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return Ticks(ticks)
}
