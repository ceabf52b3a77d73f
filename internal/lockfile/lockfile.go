// Package lockfile provides a recursive lock shared between processes.
//
// A Lock pairs an in-process recursive mutex with an exclusive OS lock on a
// file. Goroutines of one process contend on the mutex; processes contend on
// the file. The file lock is taken on the outermost acquisition and released
// on the outermost unlock, and while it is held the file carries a Holder
// record naming the owner.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/relock/internal/clock"
	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/flock"
	"github.com/mrz1836/relock/internal/rmutex"
	"github.com/mrz1836/relock/internal/timetraits"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// validNameRegex matches valid lock names (alphanumeric, dash, underscore).
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// PathFor returns the lock file path for name inside dir.
func PathFor(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("lock name: %w", errors.ErrEmptyValue)
	}
	if !validNameRegex.MatchString(name) {
		return "", fmt.Errorf("lock name %q: %w", name, errors.ErrPathTraversal)
	}
	return filepath.Join(dir, name+constants.LockFileExt), nil
}

// Lock is a recursive lock backed by a file.
type Lock struct {
	path  string
	id    string
	file  *os.File
	mu    *rmutex.Mutex
	clock clock.Clock

	logger zerolog.Logger
	yield  func()
}

// Option configures a Lock.
type Option func(*Lock)

// WithLogger sets the logger for the lock and its in-process mutex.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Lock) {
		l.logger = logger
	}
}

// WithPollInterval sets the sleep between file lock probes during timed
// acquisition. A non-positive d yields the processor instead.
func WithPollInterval(d time.Duration) Option {
	return func(l *Lock) {
		l.yield = rmutex.Yielder(d)
	}
}

// WithYield sets the function called between file lock probes.
func WithYield(yield func()) Option {
	return func(l *Lock) {
		if yield != nil {
			l.yield = yield
		}
	}
}

// WithClock sets the clock used to stamp holder records.
func WithClock(c clock.Clock) Option {
	return func(l *Lock) {
		if c != nil {
			l.clock = c
		}
	}
}

// Open creates the lock file at path, with its parent directory, and returns
// an unlocked Lock with a fresh holder id.
func Open(path string, opts ...Option) (*Lock, error) {
	l := &Lock{
		path:   path,
		id:     uuid.NewString(),
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
		yield:  rmutex.Yielder(0),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm) // #nosec G304 -- path is built by PathFor or supplied by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	l.file = f
	l.logger = l.logger.With().Str("lock", path).Str("holder_id", l.id).Logger()
	l.mu = rmutex.New(rmutex.WithLogger(l.logger), rmutex.WithYield(l.yield))
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// ID returns the holder id written to the file while this Lock holds it.
func (l *Lock) ID() string {
	return l.id
}

// Lock blocks until the calling goroutine holds the lock.
func (l *Lock) Lock() error {
	if err := l.mu.Lock(); err != nil {
		return err
	}
	if l.mu.Depth() > 1 {
		return nil
	}
	if err := flock.Exclusive(l.file.Fd()); err != nil {
		l.mu.Unlock()
		return errors.LockFailure(err)
	}
	return l.acquired()
}

// TryLock acquires the lock only if neither another goroutine nor another
// process holds it.
func (l *Lock) TryLock() (bool, error) {
	ok, err := l.mu.TryLock()
	if err != nil || !ok {
		return ok, err
	}
	if l.mu.Depth() > 1 {
		return true, nil
	}

	ok, err = l.tryFile()
	if err != nil || !ok {
		l.mu.Unlock()
		return false, err
	}
	if err := l.acquired(); err != nil {
		return false, err
	}
	return true, nil
}

// LockTimeout is TimedLock against the system clock with a deadline d from now.
func (l *Lock) LockTimeout(d time.Duration) (bool, error) {
	tr := timetraits.New[time.Time, time.Duration](clock.RealClock{}, nil)
	return TimedLock(l, tr, rmutex.Until(tr.Add(tr.Now(), d)))
}

// Unlock releases one level of ownership. The outermost unlock clears the
// holder record and releases the file lock. Unlocking a lock the caller does
// not hold panics.
func (l *Lock) Unlock() error {
	var err error
	if l.mu.Depth() == 1 {
		if truncErr := l.file.Truncate(0); truncErr != nil {
			err = fmt.Errorf("failed to clear holder record: %w", truncErr)
		}
		if unlockErr := flock.Unlock(l.file.Fd()); unlockErr != nil {
			err = fmt.Errorf("failed to release file lock: %w", unlockErr)
		}
		l.logger.Debug().Msg("lock released")
	}
	l.mu.Unlock()
	return err
}

// Close releases the file handle. Closing a held lock panics.
func (l *Lock) Close() error {
	if err := l.mu.Close(); err != nil {
		return err
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	return nil
}

// TimedLock acquires l, giving up once deadline has passed on the clock
// behind tr. The in-process mutex is acquired first; the file lock is then
// polled against the same deadline. An infinite deadline behaves as Lock.
func TimedLock[T timetraits.TimePoint[T, D], D timetraits.Duration](
	l *Lock, tr *timetraits.Traits[T, D], deadline rmutex.Deadline[T],
) (bool, error) {
	ok, err := rmutex.TimedLock(l.mu, tr, deadline)
	if err != nil || !ok {
		return ok, err
	}
	if l.mu.Depth() > 1 {
		return true, nil
	}

	abs, finite := deadline.Time()
	if !finite {
		if err := flock.Exclusive(l.file.Fd()); err != nil {
			l.mu.Unlock()
			return false, errors.LockFailure(err)
		}
	} else {
		ok, err = rmutex.PollUntil(rmutex.TryLockFunc(l.tryFile), tr, abs, l.yield)
		if err != nil || !ok {
			l.mu.Unlock()
			if !ok && err == nil {
				l.logger.Debug().Msg("file lock deadline expired")
			}
			return false, err
		}
	}

	if err := l.acquired(); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Lock) tryFile() (bool, error) {
	ok, err := flock.TryExclusive(l.file.Fd())
	if err != nil {
		return false, errors.LockFailure(err)
	}
	return ok, nil
}

// acquired records this Lock as the holder after the outermost acquisition.
// On failure everything taken so far is released.
func (l *Lock) acquired() error {
	h := newHolder(l.id, l.clock.Now())
	if err := writeHolder(l.file, h); err != nil {
		_ = flock.Unlock(l.file.Fd())
		l.mu.Unlock()
		return errors.LockFailure(err)
	}
	l.logger.Debug().Int("pid", h.PID).Msg("lock acquired")
	return nil
}
