package timetraits

// Duration is a signed tick count in a clock's native period.
type Duration interface {
	~int64
}

// TimePoint is an instant on a clock: totally ordered, shiftable by a
// duration, and subtractable into a duration. time.Time satisfies
// TimePoint[time.Time, time.Duration].
type TimePoint[T any, D Duration] interface {
	Add(d D) T
	Sub(u T) D
	Before(u T) bool
}

// Clock is the capability the adapter needs from a clock: its current
// reading and the length of one tick.
type Clock[T TimePoint[T, D], D Duration] interface {
	Now() T
	Period() Period
}

// Traits adapts a Clock for deadline code that must not know the concrete
// clock type. It holds no mutable state.
type Traits[T TimePoint[T, D], D Duration] struct {
	clock Clock[T, D]
	wait  WaitTraits[D]
}

// New returns the adapter for clock. A nil wait applies no transformation
// in ToPosixDuration.
func New[T TimePoint[T, D], D Duration](clock Clock[T, D], wait WaitTraits[D]) *Traits[T, D] {
	if wait == nil {
		wait = Identity[D]{}
	}
	return &Traits[T, D]{clock: clock, wait: wait}
}

// Now returns the clock's current reading.
func (tr *Traits[T, D]) Now() T {
	return tr.clock.Now()
}

// Add returns t shifted by d.
func (tr *Traits[T, D]) Add(t T, d D) T {
	return t.Add(d)
}

// Subtract returns t1 - t2, negative when t1 precedes t2.
func (tr *Traits[T, D]) Subtract(t1, t2 T) D {
	return t1.Sub(t2)
}

// LessThan reports whether t1 is strictly before t2.
func (tr *Traits[T, D]) LessThan(t1, t2 T) bool {
	return t1.Before(t2)
}

// Period returns the clock's tick period.
func (tr *Traits[T, D]) Period() Period {
	return tr.clock.Period()
}

// ToPosixDuration applies the wait traits to d and wraps the result for
// unit queries.
func (tr *Traits[T, D]) ToPosixDuration(d D) PortableDuration {
	return NewPortableDuration(int64(tr.wait.ToWaitDuration(d)), tr.clock.Period())
}
