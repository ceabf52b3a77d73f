package rmutex

// Deadline is an absolute point in time on some clock, or no deadline at all.
// The zero value never expires.
type Deadline[T any] struct {
	at     T
	finite bool
}

// Until returns a deadline expiring at t.
func Until[T any](t T) Deadline[T] {
	return Deadline[T]{at: t, finite: true}
}

// Forever returns a deadline that never expires.
func Forever[T any]() Deadline[T] {
	return Deadline[T]{}
}

// Infinite reports whether the deadline never expires.
func (d Deadline[T]) Infinite() bool {
	return !d.finite
}

// Time returns the expiry point and whether there is one.
func (d Deadline[T]) Time() (T, bool) {
	return d.at, d.finite
}
