package timetraits

// WaitTraits transforms a duration before it is used for waiting, e.g. to
// enforce a minimum poll granularity.
type WaitTraits[D Duration] interface {
	ToWaitDuration(d D) D
}

// WaitTraitsFunc adapts an ordinary function to WaitTraits.
type WaitTraitsFunc[D Duration] func(d D) D

// ToWaitDuration calls f(d).
func (f WaitTraitsFunc[D]) ToWaitDuration(d D) D {
	return f(d)
}

// Identity returns durations unchanged.
type Identity[D Duration] struct{}

// ToWaitDuration returns d.
func (Identity[D]) ToWaitDuration(d D) D {
	return d
}

// Bounds clamps positive durations into [Min, Max]. A zero bound is
// disabled. Zero and negative durations mean "already expired" and pass
// through untouched.
type Bounds[D Duration] struct {
	Min D
	Max D
}

// ToWaitDuration clamps d into the configured bounds.
func (b Bounds[D]) ToWaitDuration(d D) D {
	if d <= 0 {
		return d
	}
	if b.Min > 0 && d < b.Min {
		d = b.Min
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}
