package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/relock/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These defaults are the base layer that config files, environment
// variables, and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Lock: LockConfig{
			// Dir: empty resolves to ~/.relock/locks.
			Dir:          "",
			Timeout:      constants.DefaultLockTimeout,
			PollInterval: constants.DefaultPollInterval,
			MinWait:      0,
			MaxWait:      constants.DefaultMaxWait,
		},
		Contend: ContendConfig{
			Workers:    constants.DefaultContendWorkers,
			Iterations: constants.DefaultContendIterations,
			Depth:      constants.DefaultContendDepth,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Lock defaults
	v.SetDefault("lock.dir", d.Lock.Dir)
	v.SetDefault("lock.timeout", d.Lock.Timeout.String())
	v.SetDefault("lock.poll_interval", d.Lock.PollInterval.String())
	v.SetDefault("lock.min_wait", d.Lock.MinWait.String())
	v.SetDefault("lock.max_wait", d.Lock.MaxWait.String())

	// Contend defaults
	v.SetDefault("contend.workers", d.Contend.Workers)
	v.SetDefault("contend.iterations", d.Contend.Iterations)
	v.SetDefault("contend.depth", d.Contend.Depth)
}
