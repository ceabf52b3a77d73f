package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/relock/internal/clock"
	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/lockfile"
	"github.com/mrz1836/relock/internal/rmutex"
	"github.com/mrz1836/relock/internal/timetraits"
	"github.com/mrz1836/relock/internal/tui"
)

type lockOptions struct {
	timeout time.Duration
	hold    time.Duration
}

// AddLockCommand adds the lock command to the root command.
func AddLockCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &lockOptions{}

	cmd := &cobra.Command{
		Use:   "lock <name>",
		Short: "Acquire a cross-process lock file and hold it",
		Long: `Acquire the lock file <lock_dir>/<name>.lock within --timeout, hold it for
--hold (or until interrupted), then release it.

A timeout of 0 makes a single attempt. Without --timeout the lock.timeout
configuration value is used.

Examples:
  relock lock deploy --hold 30s
  relock lock deploy --timeout 0
  relock lock deploy --timeout 1m --hold 10s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig(ctx)
			if cmd.Flags().Changed("timeout") {
				cfg.Lock.Timeout = opts.timeout
			}
			if cfg.Lock.Timeout < 0 || opts.hold < 0 {
				return errors.NewExitCode2Error(
					fmt.Errorf("%w: --timeout and --hold must not be negative", errors.ErrInvalidArgument))
			}
			return runLock(ctx, newOutput(cmd.OutOrStdout(), flags), commandLogger(ctx), cfg.Lock, args[0], opts.hold)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "how long to wait for the lock (0 = single attempt)")
	cmd.Flags().DurationVar(&opts.hold, "hold", 0, "how long to hold the lock once acquired")

	root.AddCommand(cmd)
}

// lockPath resolves name inside the configured lock directory.
func lockPath(cfg config.LockConfig, name string) (string, error) {
	dir, err := cfg.LockDir()
	if err != nil {
		return "", err
	}
	path, err := lockfile.PathFor(dir, name)
	if err != nil {
		return "", errors.NewExitCode2Error(err)
	}
	return path, nil
}

func runLock(
	ctx context.Context, out tui.Output, logger zerolog.Logger,
	cfg config.LockConfig, name string, hold time.Duration,
) error {
	path, err := lockPath(cfg, name)
	if err != nil {
		return err
	}

	l, err := lockfile.Open(path,
		lockfile.WithLogger(logger),
		lockfile.WithPollInterval(cfg.PollInterval),
	)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	ok, err := acquireLock(l, cfg)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrLockTimeout, "%s not acquired within %s", name, cfg.Timeout)
	}

	out.Success("acquired " + name)
	out.Fields([]tui.Field{
		{Key: "path", Value: l.Path()},
		{Key: "holder", Value: l.ID()},
		{Key: "hold", Value: hold.String()},
	})

	holdLock(ctx, hold)

	if err := l.Unlock(); err != nil {
		return err
	}
	out.Success("released " + name)
	return nil
}

// acquireLock makes a single attempt for a zero timeout and a deadline-bounded
// attempt otherwise.
func acquireLock(l *lockfile.Lock, cfg config.LockConfig) (bool, error) {
	if cfg.Timeout == 0 {
		return l.TryLock()
	}
	wait := timetraits.Bounds[time.Duration]{Min: cfg.MinWait, Max: cfg.MaxWait}
	tr := timetraits.New[time.Time, time.Duration](clock.RealClock{}, wait)
	return lockfile.TimedLock(l, tr, rmutex.Until(tr.Add(tr.Now(), cfg.Timeout)))
}

// holdLock returns after d or when ctx is done, whichever comes first.
func holdLock(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		zerolog.Ctx(ctx).Info().Msg("interrupted, releasing lock")
	case <-timer.C:
	}
}

