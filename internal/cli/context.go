package cli

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/rmutex"
)

// loadConfig loads the layered configuration for a command.
// A config that cannot be loaded is logged and replaced by the defaults.
func loadConfig(ctx context.Context) *config.Config {
	cfg, err := config.Load(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to load config, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// commandLogger returns the logger attached to ctx by the root command.
func commandLogger(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// strategyName names the timed acquisition strategy compiled into rmutex.
func strategyName() string {
	name := "polling"
	if rmutex.NativeTimedLock {
		name = "native"
	}
	return cases.Title(language.English).String(name)
}
