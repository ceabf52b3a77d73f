package rmutex

import (
	"runtime"

	"github.com/mrz1836/relock/internal/timetraits"
)

// TryLocker is anything offering a non-blocking acquisition attempt.
// *Mutex satisfies it.
type TryLocker interface {
	TryLock() (bool, error)
}

// TryLockFunc adapts a function to TryLocker.
type TryLockFunc func() (bool, error)

// TryLock calls f.
func (f TryLockFunc) TryLock() (bool, error) {
	return f()
}

// TimedLock acquires m, giving up once deadline has passed on the clock
// behind tr. It returns true when the caller holds the mutex and false when
// the deadline expired first. An infinite deadline behaves as Lock and never
// reads the clock.
//
// The caller re-entering a mutex it already holds always succeeds
// immediately, whatever the deadline. Expiry is best effort: the result may
// be observed some scheduling latency after the deadline.
func TimedLock[T timetraits.TimePoint[T, D], D timetraits.Duration](
	m *Mutex, tr *timetraits.Traits[T, D], deadline Deadline[T],
) (bool, error) {
	if deadline.Infinite() {
		if err := m.Lock(); err != nil {
			return false, err
		}
		return true, nil
	}

	id, err := m.caller()
	if err != nil {
		return false, err
	}
	if owned, err := m.reenter(id); owned {
		return err == nil, err
	}

	abs, _ := deadline.Time()
	ok := timedAcquire(m, id, tr, abs)
	if !ok {
		m.logger.Debug().
			Bool("native", NativeTimedLock).
			Msg("timed lock deadline expired")
	}
	return ok, nil
}

// PollUntil probes l until it succeeds, fails, or deadline is no longer in
// the future, calling yield between probes. The first probe happens before
// the clock is consulted, and once the deadline is reached no further probe
// is made. A nil yield yields the processor.
func PollUntil[T timetraits.TimePoint[T, D], D timetraits.Duration](
	l TryLocker, tr *timetraits.Traits[T, D], deadline T, yield func(),
) (bool, error) {
	if yield == nil {
		yield = runtime.Gosched
	}
	for {
		ok, err := l.TryLock()
		if err != nil || ok {
			return ok, err
		}
		if !tr.LessThan(tr.Now(), deadline) {
			return false, nil
		}
		yield()
	}
}
