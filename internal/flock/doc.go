// Package flock provides cross-platform advisory file locks.
//
// Locks are exclusive and whole-file. TryExclusive never blocks and reports
// contention as false; any other failure is returned as an error. Exclusive
// blocks until the lock is granted.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
//	ok, err := flock.TryExclusive(file.Fd())
//	if err != nil || !ok {
//	    // Lock not acquired
//	}
//	defer flock.Unlock(file.Fd())
package flock
