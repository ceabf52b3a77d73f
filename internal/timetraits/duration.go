package timetraits

import (
	"math"
	"math/bits"
	"time"

	"github.com/mrz1836/relock/internal/errors"
)

// PortableDuration is a transient, immutable view of a clock duration that
// remembers the clock's tick period. It answers unit queries by exact integer
// rescaling, never by floating point.
//
// Known limitation: the Total* accessors saturate at math.MinInt64 and
// math.MaxInt64 when the rescaled value does not fit in 64 bits. Use In to
// detect that case as ErrDurationOverflow.
type PortableDuration struct {
	ticks  int64
	period Period
}

// NewPortableDuration wraps a raw tick count of the given period.
func NewPortableDuration(ticks int64, period Period) PortableDuration {
	return PortableDuration{ticks: ticks, period: period}
}

// Ticks returns the raw tick count.
func (d PortableDuration) Ticks() int64 {
	return d.ticks
}

// Period returns the tick period the count is expressed in.
func (d PortableDuration) Period() Period {
	return d.period
}

// TotalSeconds returns the duration in whole seconds, truncated toward zero.
func (d PortableDuration) TotalSeconds() int64 {
	return d.saturated(Second)
}

// TotalMilliseconds returns the duration in whole milliseconds, truncated toward zero.
func (d PortableDuration) TotalMilliseconds() int64 {
	return d.saturated(Millisecond)
}

// TotalMicroseconds returns the duration in whole microseconds, truncated toward zero.
func (d PortableDuration) TotalMicroseconds() int64 {
	return d.saturated(Microsecond)
}

// TotalNanoseconds returns the duration in whole nanoseconds, truncated toward zero.
func (d PortableDuration) TotalNanoseconds() int64 {
	return d.saturated(Nanosecond)
}

// Std returns the duration as a time.Duration, the form timers and sleeps accept.
func (d PortableDuration) Std() time.Duration {
	return time.Duration(d.TotalNanoseconds())
}

// In returns the duration counted in ticks of unit, truncated toward zero.
// It fails with ErrDurationOverflow when the result does not fit in an int64
// and with ErrInvalidPeriod when either period is not positive.
func (d PortableDuration) In(unit Period) (int64, error) {
	return rescale(d.ticks, d.period, unit)
}

// saturated rescales to unit, clamping to the int64 range on overflow.
// An invalid period yields zero.
func (d PortableDuration) saturated(unit Period) int64 {
	v, err := rescale(d.ticks, d.period, unit)
	switch {
	case err == nil:
		return v
	case !d.period.Valid():
		return 0
	case d.ticks < 0:
		return math.MinInt64
	default:
		return math.MaxInt64
	}
}

// rescale converts ticks of period from into ticks of period to.
//
// The factor from/to is reduced before use, so the common unit conversions
// need only a multiplication or only a division. The general case multiplies
// into a 128-bit intermediate before dividing, so it never loses precision
// to an intermediate overflow.
func rescale(ticks int64, from, to Period) (int64, error) {
	if !from.Valid() || !to.Valid() {
		return 0, errors.Wrapf(errors.ErrInvalidPeriod, "rescale %s to %s", from, to)
	}
	if ticks == 0 {
		return 0, nil
	}

	from, to = from.Reduced(), to.Reduced()
	g1 := gcd(from.Num, to.Num)
	g2 := gcd(from.Den, to.Den)

	num, okNum := mulUint64(uint64(from.Num/g1), uint64(to.Den/g2)) //nolint:gosec // G115: terms are positive
	den, okDen := mulUint64(uint64(from.Den/g2), uint64(to.Num/g1)) //nolint:gosec // G115: terms are positive
	if !okNum || !okDen {
		return 0, overflow(ticks, from, to)
	}

	neg := ticks < 0
	mag := uint64(ticks) //nolint:gosec // G115: sign handled separately
	if neg {
		mag = -mag
	}

	var q uint64
	switch {
	case num == 1 && den == 1:
		return ticks, nil
	case den == 1:
		hi, lo := bits.Mul64(mag, num)
		if hi != 0 {
			return 0, overflow(ticks, from, to)
		}
		q = lo
	case num == 1:
		q = mag / den
	default:
		hi, lo := bits.Mul64(mag, num)
		if hi >= den {
			return 0, overflow(ticks, from, to)
		}
		q, _ = bits.Div64(hi, lo, den)
	}

	if neg {
		if q > 1<<63 {
			return 0, overflow(ticks, from, to)
		}
		return int64(-q), nil //nolint:gosec // G115: q <= 2^63 checked above
	}
	if q > math.MaxInt64 {
		return 0, overflow(ticks, from, to)
	}
	return int64(q), nil
}

// mulUint64 multiplies a and b, reporting false if the product overflows.
func mulUint64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

func overflow(ticks int64, from, to Period) error {
	return errors.Wrapf(errors.ErrDurationOverflow, "%d ticks of %s in units of %s", ticks, from, to)
}
