//go:build unix

package flock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// TryExclusive attempts an exclusive lock on fd without blocking.
// It returns false when another descriptor holds the lock.
func TryExclusive(fd uintptr) (bool, error) {
	for {
		err := unix.Flock(int(fd), unix.LOCK_EX|unix.LOCK_NB) //nolint:gosec // G115: fd fits in int
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EWOULDBLOCK):
			return false, nil
		default:
			return false, err
		}
	}
}

// Exclusive blocks until an exclusive lock on fd is granted.
func Exclusive(fd uintptr) error {
	for {
		err := unix.Flock(int(fd), unix.LOCK_EX) //nolint:gosec // G115: fd fits in int
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

// Unlock releases the lock on fd.
func Unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN) //nolint:gosec // G115: fd fits in int
}
