// Package rmutex provides a recursive (reentrant) mutex with non-blocking and
// deadline-bounded acquisition.
//
// Ownership belongs to a goroutine: the goroutine holding the mutex may lock
// it again without blocking, and must unlock it as many times as it locked
// it. Contention and deadline expiry are reported as a false result. Only a
// failure of the mutex itself (closed, caller identity unknown, recursion
// limit) is returned as an error, and every such error matches
// errors.ErrLockFailed.
//
// Timed acquisition uses one of two strategies chosen at build time; see
// NativeTimedLock.
package rmutex

import (
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/relock/internal/clock"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/goid"
	"github.com/mrz1836/relock/internal/timetraits"
)

// MaxDepth is the deepest the owning goroutine may re-enter the mutex.
const MaxDepth = math.MaxInt32

// Mutex is a recursive mutual-exclusion lock.
//
// A Mutex must be created with New and must not be copied after first use.
type Mutex struct {
	// sem holds one token while the mutex is locked.
	sem chan struct{}
	// owner is the goroutine id of the holder, 0 when unlocked.
	owner atomic.Int64
	// depth is only read and written by the owner.
	depth  int
	closed atomic.Bool

	logger zerolog.Logger
	yield  func()
}

// Option configures a Mutex.
type Option func(*Mutex)

// WithLogger sets the logger used to report lock failures and expired
// deadlines. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Mutex) {
		m.logger = logger
	}
}

// WithYield sets the function the polling strategy calls between probes.
func WithYield(yield func()) Option {
	return func(m *Mutex) {
		if yield != nil {
			m.yield = yield
		}
	}
}

// WithPollInterval makes the polling strategy sleep for d between probes
// instead of yielding the processor. A non-positive d keeps the yield.
func WithPollInterval(d time.Duration) Option {
	return func(m *Mutex) {
		m.yield = Yielder(d)
	}
}

// Yielder returns runtime.Gosched for a non-positive d, otherwise a function
// sleeping for d.
func Yielder(d time.Duration) func() {
	if d <= 0 {
		return runtime.Gosched
	}
	return func() { time.Sleep(d) }
}

// New creates an unlocked mutex.
func New(opts ...Option) *Mutex {
	m := &Mutex{
		sem:    make(chan struct{}, 1),
		logger: zerolog.Nop(),
		yield:  runtime.Gosched,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lock blocks until the calling goroutine holds the mutex.
// If the caller already holds it, the recursion depth grows by one.
func (m *Mutex) Lock() error {
	id, err := m.caller()
	if err != nil {
		return err
	}
	if owned, err := m.reenter(id); owned {
		return err
	}

	m.sem <- struct{}{}
	m.acquired(id)
	return nil
}

// TryLock acquires the mutex only if that is possible without blocking.
// It returns false, leaving the mutex untouched, when another goroutine
// holds it.
func (m *Mutex) TryLock() (bool, error) {
	id, err := m.caller()
	if err != nil {
		return false, err
	}
	if owned, err := m.reenter(id); owned {
		return err == nil, err
	}
	return m.tryAcquire(id), nil
}

// LockUntil is TimedLock against the system clock.
func (m *Mutex) LockUntil(deadline time.Time) (bool, error) {
	return TimedLock(m, systemTraits, Until(deadline))
}

// LockTimeout is TimedLock against the system clock with a deadline d from now.
func (m *Mutex) LockTimeout(d time.Duration) (bool, error) {
	return m.LockUntil(systemTraits.Add(systemTraits.Now(), d))
}

// Unlock releases one level of ownership; the mutex becomes available once
// the depth reaches zero.
//
// Unlocking a mutex the caller does not hold is a programming error and
// panics, as sync.Mutex does.
func (m *Mutex) Unlock() {
	id := goid.Current()
	if id == 0 || m.owner.Load() != id {
		panic("rmutex: unlock of mutex not held by caller")
	}

	m.depth--
	if m.depth > 0 {
		return
	}
	m.owner.Store(0)
	<-m.sem
}

// Depth returns how many times the calling goroutine currently holds the
// mutex, 0 if it is not the owner.
func (m *Mutex) Depth() int {
	id := goid.Current()
	if id == 0 || m.owner.Load() != id {
		return 0
	}
	return m.depth
}

// Close retires the mutex. Later acquisitions fail with ErrMutexClosed.
// Closing a mutex that is held is a programming error and panics.
func (m *Mutex) Close() error {
	if m.owner.Load() != 0 {
		panic("rmutex: close of locked mutex")
	}
	m.closed.Store(true)
	return nil
}

// caller identifies the calling goroutine, failing if the mutex can no
// longer be acquired.
func (m *Mutex) caller() (int64, error) {
	if m.closed.Load() {
		return 0, m.fail(errors.ErrMutexClosed)
	}
	id := goid.Current()
	if id == 0 {
		return 0, m.fail(errors.ErrOwnerUnknown)
	}
	return id, nil
}

// reenter deepens ownership when id already holds the mutex.
// It reports whether id was the owner.
func (m *Mutex) reenter(id int64) (bool, error) {
	if m.owner.Load() != id {
		return false, nil
	}
	if m.depth >= MaxDepth {
		return true, m.fail(errors.ErrRecursionLimit)
	}
	m.depth++
	return true, nil
}

// tryAcquire takes the token if it is free.
func (m *Mutex) tryAcquire(id int64) bool {
	select {
	case m.sem <- struct{}{}:
		m.acquired(id)
		return true
	default:
		return false
	}
}

// acquired records id as the owner after it took the token.
func (m *Mutex) acquired(id int64) {
	m.owner.Store(id)
	m.depth = 1
}

func (m *Mutex) fail(cause error) error {
	err := errors.LockFailure(cause)
	m.logger.Error().Err(err).Msg("mutex acquisition failed")
	return err
}

// systemTraits adapts the system clock for LockUntil and LockTimeout.
//
//nolint:gochecknoglobals // Stateless adapter shared by every mutex
var systemTraits = timetraits.New[time.Time, time.Duration](clock.RealClock{}, nil)
