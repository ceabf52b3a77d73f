package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/timetraits"
	"github.com/mrz1836/relock/internal/tui"
)

type convertOptions struct {
	ticks int64
	num   int64
	den   int64
}

// AddConvertCommand adds the convert command to the root command.
func AddConvertCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Show a tick count in seconds, milliseconds and microseconds",
		Long: `Convert a number of ticks of an arbitrary clock period into portable units.

The period is the length of one tick as the fraction num/den of a second.
Values too large for 64 bits saturate; the nanosecond line reports when the
exact value overflows.

Examples:
  relock convert --ticks 90 --num 1 --den 60      # 90 frames at 60 Hz
  relock convert --ticks 1500 --num 1 --den 1000  # 1500 milliseconds`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(newOutput(cmd.OutOrStdout(), flags), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.ticks, "ticks", 0, "number of ticks")
	cmd.Flags().Int64Var(&opts.num, "num", 1, "period numerator (seconds)")
	cmd.Flags().Int64Var(&opts.den, "den", 1_000_000_000, "period denominator")

	root.AddCommand(cmd)
}

func runConvert(out tui.Output, opts *convertOptions) error {
	period, err := timetraits.NewPeriod(opts.num, opts.den)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	d := timetraits.NewPortableDuration(opts.ticks, period)
	fields := []tui.Field{
		{Key: "ticks", Value: strconv.FormatInt(d.Ticks(), 10)},
		{Key: "period", Value: period.String()},
		{Key: "seconds", Value: strconv.FormatInt(d.TotalSeconds(), 10)},
		{Key: "milliseconds", Value: strconv.FormatInt(d.TotalMilliseconds(), 10)},
		{Key: "microseconds", Value: strconv.FormatInt(d.TotalMicroseconds(), 10)},
		{Key: "nanoseconds", Value: strconv.FormatInt(d.TotalNanoseconds(), 10)},
	}
	out.Fields(fields)

	if _, err := d.In(timetraits.Nanosecond); err != nil {
		if !stderrors.Is(err, errors.ErrDurationOverflow) {
			return err
		}
		out.Warning(fmt.Sprintf("exact value does not fit in 64 bits; results are saturated (%v)", err))
	}
	return nil
}
