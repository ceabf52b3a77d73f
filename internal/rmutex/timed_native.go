//go:build !relock_poll

package rmutex

import (
	"time"

	"github.com/mrz1836/relock/internal/timetraits"
)

// NativeTimedLock reports whether timed acquisition blocks on the mutex with
// a timer (true) or polls TryLock against the clock (false, build tag
// relock_poll).
const NativeTimedLock = true

// timedAcquire blocks on the token for the time remaining until abs, as
// shaped by the wait traits, and re-reads the clock each time the timer
// fires. The clock must advance in step with real time.
func timedAcquire[T timetraits.TimePoint[T, D], D timetraits.Duration](
	m *Mutex, id int64, tr *timetraits.Traits[T, D], abs T,
) bool {
	if m.tryAcquire(id) {
		return true
	}
	for {
		wait := tr.ToPosixDuration(tr.Subtract(abs, tr.Now())).Std()
		if wait <= 0 {
			return false
		}

		timer := time.NewTimer(wait)
		select {
		case m.sem <- struct{}{}:
			timer.Stop()
			m.acquired(id)
			return true
		case <-timer.C:
		}
	}
}
