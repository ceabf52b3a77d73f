//go:build windows

package flock

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Windows LockFileEx/UnlockFileEx API parameters.
// See: https://learn.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-lockfileex
const (
	lockReserved  = 0 // Reserved parameter, must be zero
	lockBytesLow  = 1 // Low-order 32 bits of byte range to lock (1 byte = entire file)
	lockBytesHigh = 0 // High-order 32 bits of byte range to lock
)

// TryExclusive attempts an exclusive lock on fd without blocking.
// It returns false when another handle holds the lock.
func TryExclusive(fd uintptr) (bool, error) {
	err := lockFileEx(fd, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
		return false, nil
	default:
		return false, err
	}
}

// Exclusive blocks until an exclusive lock on fd is granted.
func Exclusive(fd uintptr) error {
	return lockFileEx(fd, windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// Unlock releases the lock on fd.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

func lockFileEx(fd uintptr, flags uint32) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		flags,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}
