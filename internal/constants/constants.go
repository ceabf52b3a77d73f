// Package constants provides centralized constant values used throughout relock.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by relock for organizing data.
const (
	// RelockHome is the hidden directory name where relock stores its data.
	// This directory is created in the user's home directory.
	RelockHome = ".relock"

	// LocksDir is the directory name where lock files are created by default.
	LocksDir = "locks"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Lock timing defaults.
const (
	// DefaultLockTimeout is how long `relock lock` waits for a lock file.
	DefaultLockTimeout = 5 * time.Second

	// DefaultPollInterval is the sleep between file lock probes.
	// Zero means yield the processor instead of sleeping.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultMaxWait caps a single native wait before the deadline is re-read.
	DefaultMaxWait = time.Second

	// DefaultProbeTimeout is the deadline distance used by `relock probe`.
	DefaultProbeTimeout = 100 * time.Millisecond
)

// Contention run defaults.
const (
	// DefaultContendWorkers is the number of goroutines in a contention run.
	DefaultContendWorkers = 8

	// DefaultContendIterations is the number of increments per worker.
	DefaultContendIterations = 1000

	// DefaultContendDepth is the reentry depth of each increment.
	DefaultContendDepth = 3
)

// Log file rotation settings for the CLI log.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)
