// Package errors provides centralized error handling for relock.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// Contention and deadline expiry are never errors: lock operations report them
// as a false result. Only abnormal failures of the underlying primitive surface
// here, always matching ErrLockFailed.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrLockFailed is the lock-failure signal. Every abnormal failure of an
	// acquisition operation matches it, whatever the underlying cause.
	ErrLockFailed = errors.New("lock failed")

	// ErrMutexClosed indicates an operation on a mutex that was already closed.
	ErrMutexClosed = errors.New("mutex closed")

	// ErrOwnerUnknown indicates the identity of the calling goroutine could not
	// be determined, so ownership cannot be tracked.
	ErrOwnerUnknown = errors.New("caller identity unknown")

	// ErrRecursionLimit indicates the owner re-entered the mutex more times than
	// the recursion counter can represent.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrDurationOverflow indicates a duration rescale whose result does not fit
	// in 64 bits.
	ErrDurationOverflow = errors.New("duration overflow")

	// ErrInvalidPeriod indicates a tick period with a non-positive numerator or
	// denominator.
	ErrInvalidPeriod = errors.New("invalid tick period")

	// ErrLockTimeout indicates a lock could not be acquired by its deadline.
	// Lock primitives report this as a false result; commands convert it.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrLockFileCorrupted indicates the holder record in a lock file could not be parsed.
	ErrLockFileCorrupted = errors.New("lock file corrupted")

	// ErrNoHolder indicates a lock file currently carries no holder record.
	ErrNoHolder = errors.New("lock not held")

	// ErrCountMismatch indicates a contention run observed a different count
	// than the number of increments performed.
	ErrCountMismatch = errors.New("counter mismatch")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLock indicates an invalid lock configuration value.
	ErrConfigInvalidLock = errors.New("invalid lock configuration")

	// ErrConfigInvalidContend indicates an invalid contend configuration value.
	ErrConfigInvalidContend = errors.New("invalid contend configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnsupportedOutputFormat indicates that an unsupported output format was specified.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrPathTraversal indicates an attempt to use path traversal in a lock name.
	ErrPathTraversal = errors.New("path traversal detected")
)

// LockFailure marks cause as a lock failure.
// The returned error matches both ErrLockFailed and cause with errors.Is().
// It returns nil if cause is nil.
func LockFailure(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrLockFailed, cause)
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
