//go:build relock_poll

package rmutex

import "github.com/mrz1836/relock/internal/timetraits"

// NativeTimedLock reports whether timed acquisition blocks on the mutex with
// a timer (true) or polls TryLock against the clock (false, build tag
// relock_poll).
const NativeTimedLock = false

// timedAcquire polls the token until abs, yielding between probes.
func timedAcquire[T timetraits.TimePoint[T, D], D timetraits.Duration](
	m *Mutex, id int64, tr *timetraits.Traits[T, D], abs T,
) bool {
	probe := TryLockFunc(func() (bool, error) {
		return m.tryAcquire(id), nil
	})
	ok, _ := PollUntil(probe, tr, abs, m.yield)
	return ok
}
