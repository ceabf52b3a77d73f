// Package timetraits adapts an arbitrary clock into the fixed interface that
// deadline and lock code consumes: read the time, add and subtract durations,
// order time points, and view a duration in seconds, milliseconds or
// microseconds regardless of the clock's native tick period.
//
// A clock is described by three types: its time point T, its duration D (a
// tick count) and its Period, the length of one tick as a reduced fraction of
// a second. time.Time and time.Duration qualify directly:
//
//	tr := timetraits.New[time.Time, time.Duration](clock.RealClock{}, nil)
//	deadline := tr.Add(tr.Now(), 250*time.Millisecond)
//	ms := tr.ToPosixDuration(tr.Subtract(deadline, tr.Now())).TotalMilliseconds()
//
// Every operation is a pure function of its inputs; a Traits value may be
// shared by any number of goroutines.
package timetraits

import (
	"fmt"

	"github.com/mrz1836/relock/internal/errors"
)

// Period is the length of one clock tick as the fraction Num/Den of a second.
type Period struct {
	Num int64
	Den int64
}

// Common periods.
//
//nolint:gochecknoglobals // Immutable unit table
var (
	Second      = Period{Num: 1, Den: 1}
	Millisecond = Period{Num: 1, Den: 1_000}
	Microsecond = Period{Num: 1, Den: 1_000_000}
	Nanosecond  = Period{Num: 1, Den: 1_000_000_000}
)

// NewPeriod returns the reduced period num/den.
// Both terms must be positive.
func NewPeriod(num, den int64) (Period, error) {
	p := Period{Num: num, Den: den}
	if !p.Valid() {
		return Period{}, errors.Wrapf(errors.ErrInvalidPeriod, "period %d/%d", num, den)
	}
	return p.Reduced(), nil
}

// Valid reports whether both terms are positive.
func (p Period) Valid() bool {
	return p.Num > 0 && p.Den > 0
}

// Reduced returns p in lowest terms.
func (p Period) Reduced() Period {
	g := gcd(p.Num, p.Den)
	if g <= 1 {
		return p
	}
	return Period{Num: p.Num / g, Den: p.Den / g}
}

// String renders the period as a fraction of a second, e.g. "1/1000s".
func (p Period) String() string {
	if p.Den == 1 {
		return fmt.Sprintf("%ds", p.Num)
	}
	return fmt.Sprintf("%d/%ds", p.Num, p.Den)
}

// gcd returns the greatest common divisor of two non-negative values.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
