package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/rmutex"
	"github.com/mrz1836/relock/internal/tui"
)

// AddContendCommand adds the contend command to the root command.
func AddContendCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := config.ContendConfig{}

	cmd := &cobra.Command{
		Use:   "contend",
		Short: "Run goroutines against one recursive mutex",
		Long: `Start several goroutines that each increment a shared counter under the
recursive mutex, re-entering it --depth times per increment, and check that
no increment was lost.

Flags not given fall back to the contend section of the configuration.

Examples:
  relock contend
  relock contend --workers 32 --iterations 10000 --depth 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig(ctx)
			if cmd.Flags().Changed("workers") {
				cfg.Contend.Workers = opts.Workers
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Contend.Iterations = opts.Iterations
			}
			if cmd.Flags().Changed("depth") {
				cfg.Contend.Depth = opts.Depth
			}
			if err := config.Validate(cfg); err != nil {
				return errors.NewExitCode2Error(err)
			}
			return runContend(ctx, newOutput(cmd.OutOrStdout(), flags), commandLogger(ctx), cfg.Contend)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "number of contending goroutines")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "increments per goroutine")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "re-entries per increment")

	root.AddCommand(cmd)
}

// contendResult is the outcome of one contention run.
type contendResult struct {
	Expected int
	Observed int
	Elapsed  time.Duration
}

func runContend(ctx context.Context, out tui.Output, logger zerolog.Logger, cfg config.ContendConfig) error {
	res, err := contend(ctx, logger, cfg)
	if err != nil {
		return err
	}

	out.Fields([]tui.Field{
		{Key: "workers", Value: strconv.Itoa(cfg.Workers)},
		{Key: "iterations", Value: strconv.Itoa(cfg.Iterations)},
		{Key: "depth", Value: strconv.Itoa(cfg.Depth)},
		{Key: "expected", Value: strconv.Itoa(res.Expected)},
		{Key: "observed", Value: strconv.Itoa(res.Observed)},
		{Key: "elapsed", Value: res.Elapsed.Round(time.Microsecond).String()},
		{Key: "strategy", Value: strategyName()},
	})

	if res.Observed != res.Expected {
		return fmt.Errorf("%w: expected %d, observed %d", errors.ErrCountMismatch, res.Expected, res.Observed)
	}
	out.Success("no increments lost")
	return nil
}

// contend runs cfg.Workers goroutines, each performing cfg.Iterations nested
// increments of a counter guarded only by the mutex.
func contend(ctx context.Context, logger zerolog.Logger, cfg config.ContendConfig) (contendResult, error) {
	m := rmutex.New(rmutex.WithLogger(logger))
	counter := 0

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for it := 0; it < cfg.Iterations; it++ {
				if err := gCtx.Err(); err != nil {
					return err
				}
				if err := incrementNested(m, &counter, cfg.Depth); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return contendResult{}, err
	}
	elapsed := time.Since(start)

	if err := m.Close(); err != nil {
		return contendResult{}, err
	}

	logger.Debug().
		Int("workers", cfg.Workers).
		Dur("elapsed", elapsed).
		Msg("contention run complete")

	return contendResult{
		Expected: cfg.Workers * cfg.Iterations,
		Observed: counter,
		Elapsed:  elapsed,
	}, nil
}

// incrementNested locks m depth times, increments counter at the innermost
// level, then unlocks depth times.
func incrementNested(m *rmutex.Mutex, counter *int, depth int) error {
	for i := 0; i < depth; i++ {
		if err := m.Lock(); err != nil {
			for j := 0; j < i; j++ {
				m.Unlock()
			}
			return err
		}
	}
	*counter++
	for i := 0; i < depth; i++ {
		m.Unlock()
	}
	return nil
}
