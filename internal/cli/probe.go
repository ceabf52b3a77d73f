package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/relock/internal/clock"
	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/rmutex"
	"github.com/mrz1836/relock/internal/timetraits"
	"github.com/mrz1836/relock/internal/tui"
)

type probeOptions struct {
	timeout time.Duration
	period  string
}

// AddProbeCommand adds the probe command to the root command.
func AddProbeCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Time out a lock attempt against a held mutex",
		Long: `Hold the recursive mutex on one goroutine and attempt a timed acquisition
from another, with the deadline measured on a tick clock of the given period.
The attempt must fail; the report shows how long it waited.

Examples:
  relock probe
  relock probe --timeout 250ms --period 1/60`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := parsePeriod(opts.period)
			if err != nil {
				return err
			}
			if opts.timeout < 0 {
				return errors.NewExitCode2Error(
					fmt.Errorf("%w: timeout %s must not be negative", errors.ErrInvalidArgument, opts.timeout))
			}

			ctx := cmd.Context()
			cfg := loadConfig(ctx)
			return runProbe(ctx, newOutput(cmd.OutOrStdout(), flags), commandLogger(ctx), cfg.Lock, period, opts.timeout)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", constants.DefaultProbeTimeout, "how long the attempt may wait")
	cmd.Flags().StringVar(&opts.period, "period", "1/1000", "tick period of the probe clock as num/den seconds")

	root.AddCommand(cmd)
}

// parsePeriod parses "num/den" (or a bare "num" meaning num/1) into a Period.
func parsePeriod(s string) (timetraits.Period, error) {
	numStr, denStr, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		denStr = "1"
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return timetraits.Period{}, errors.NewExitCode2Error(
			fmt.Errorf("%w: period %q must be num/den", errors.ErrInvalidArgument, s))
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return timetraits.Period{}, errors.NewExitCode2Error(
			fmt.Errorf("%w: period %q must be num/den", errors.ErrInvalidArgument, s))
	}

	p, err := timetraits.NewPeriod(num, den)
	if err != nil {
		return timetraits.Period{}, errors.NewExitCode2Error(err)
	}
	return p, nil
}

// probeResult is the outcome of one timed attempt.
type probeResult struct {
	Acquired bool
	Ticks    clock.Ticks
	Elapsed  time.Duration
}

func runProbe(
	ctx context.Context, out tui.Output, logger zerolog.Logger,
	cfg config.LockConfig, period timetraits.Period, timeout time.Duration,
) error {
	res, err := probe(ctx, logger, cfg, period, timeout)
	if err != nil {
		return err
	}

	out.Fields([]tui.Field{
		{Key: "acquired", Value: strconv.FormatBool(res.Acquired)},
		{Key: "period", Value: period.String()},
		{Key: "timeout", Value: fmt.Sprintf("%s (%d ticks)", timeout, res.Ticks)},
		{Key: "elapsed", Value: res.Elapsed.Round(time.Microsecond).String()},
		{Key: "strategy", Value: strategyName()},
	})
	return nil
}

// probe holds a mutex on a helper goroutine and attempts a timed acquisition
// with a deadline timeout away on a tick clock of period.
func probe(
	ctx context.Context, logger zerolog.Logger,
	cfg config.LockConfig, period timetraits.Period, timeout time.Duration,
) (probeResult, error) {
	if err := ctx.Err(); err != nil {
		return probeResult{}, err
	}

	tc, err := clock.NewTickClock(clock.RealClock{}, period)
	if err != nil {
		return probeResult{}, errors.NewExitCode2Error(err)
	}
	wait := timetraits.Bounds[clock.Ticks]{Min: tc.Ticks(cfg.MinWait), Max: tc.Ticks(cfg.MaxWait)}
	tr := timetraits.New[clock.Stamp, clock.Ticks](tc, wait)

	m := rmutex.New(rmutex.WithLogger(logger), rmutex.WithPollInterval(cfg.PollInterval))

	held := make(chan error, 1)
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.Lock(); err != nil {
			held <- err
			return
		}
		held <- nil
		<-release
		m.Unlock()
	}()
	if err := <-held; err != nil {
		<-done
		return probeResult{}, err
	}

	ticks := tc.Ticks(timeout)
	start := time.Now()
	ok, lockErr := rmutex.TimedLock(m, tr, rmutex.Until(tr.Add(tr.Now(), ticks)))
	elapsed := time.Since(start)
	if ok {
		m.Unlock()
	}

	close(release)
	<-done
	if err := m.Close(); err != nil {
		return probeResult{}, err
	}
	if lockErr != nil {
		return probeResult{}, lockErr
	}

	logger.Debug().
		Bool("acquired", ok).
		Int64("ticks", int64(ticks)).
		Dur("elapsed", elapsed).
		Msg("probe complete")

	return probeResult{Acquired: ok, Ticks: ticks, Elapsed: elapsed}, nil
}
