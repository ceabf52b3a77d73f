package config

import (
	"github.com/mrz1836/relock/internal/errors"
)

// Contend limits.
const (
	maxContendWorkers = 1024
	maxContendDepth   = 1000
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - lock durations must not be negative
//   - lock.min_wait must not exceed lock.max_wait when both are set
//   - contend.workers must be between 1 and 1024
//   - contend.iterations must be positive
//   - contend.depth must be between 1 and 1000
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateLockConfig(&cfg.Lock); err != nil {
		return err
	}

	return validateContendConfig(&cfg.Contend)
}

// validateLockConfig checks lock-specific configuration values.
func validateLockConfig(cfg *LockConfig) error {
	if cfg.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.PollInterval < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.poll_interval must not be negative, got %s", cfg.PollInterval)
	}
	if cfg.MinWait < 0 || cfg.MaxWait < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.min_wait and lock.max_wait must not be negative, got %s and %s", cfg.MinWait, cfg.MaxWait)
	}
	if cfg.MinWait > 0 && cfg.MaxWait > 0 && cfg.MinWait > cfg.MaxWait {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.min_wait (%s) must not exceed lock.max_wait (%s)", cfg.MinWait, cfg.MaxWait)
	}
	return nil
}

// validateContendConfig checks contention run configuration values.
func validateContendConfig(cfg *ContendConfig) error {
	if cfg.Workers < 1 || cfg.Workers > maxContendWorkers {
		return errors.Wrapf(errors.ErrConfigInvalidContend,
			"contend.workers must be between 1 and %d, got %d", maxContendWorkers, cfg.Workers)
	}
	if cfg.Iterations < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidContend,
			"contend.iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Depth < 1 || cfg.Depth > maxContendDepth {
		return errors.Wrapf(errors.ErrConfigInvalidContend,
			"contend.depth must be between 1 and %d, got %d", maxContendDepth, cfg.Depth)
	}
	return nil
}
