// Package config provides configuration management for relock with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (RELOCK_* prefix)
//  3. Project config (.relock/config.yaml)
//  4. Global config (~/.relock/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for relock.
type Config struct {
	// Lock contains settings for lock acquisition and lock files.
	Lock LockConfig `yaml:"lock" json:"lock" mapstructure:"lock"`

	// Contend contains settings for the contention benchmark.
	Contend ContendConfig `yaml:"contend" json:"contend" mapstructure:"contend"`
}

// LockConfig contains settings for lock acquisition.
type LockConfig struct {
	// Dir is the directory holding lock files.
	// Default: empty, meaning ~/.relock/locks
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// Timeout is how long to wait for a lock file before giving up.
	// Zero means a single attempt.
	// Default: 5 seconds
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// PollInterval is the sleep between lock file probes.
	// Zero yields the processor instead of sleeping.
	// Default: 10 milliseconds
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" mapstructure:"poll_interval"`

	// MinWait raises every positive wait to at least this long.
	// Default: 0 (disabled)
	MinWait time.Duration `yaml:"min_wait" json:"min_wait" mapstructure:"min_wait"`

	// MaxWait caps a single wait before the deadline is re-read.
	// Default: 1 second; 0 disables the cap
	MaxWait time.Duration `yaml:"max_wait" json:"max_wait" mapstructure:"max_wait"`
}

// ContendConfig contains settings for `relock contend`.
type ContendConfig struct {
	// Workers is the number of goroutines contending for the mutex.
	// Default: 8, Valid range: 1-1024
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`

	// Iterations is the number of increments each worker performs.
	// Default: 1000
	Iterations int `yaml:"iterations" json:"iterations" mapstructure:"iterations"`

	// Depth is how many times each increment re-enters the mutex.
	// Default: 3, Valid range: 1-1000
	Depth int `yaml:"depth" json:"depth" mapstructure:"depth"`
}
