package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/timetraits"
	"github.com/mrz1836/relock/internal/tui"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected timetraits.Period
		sentinel error
	}{
		{in: "1/1000", expected: timetraits.Millisecond},
		{in: " 2 / 120 ", expected: timetraits.Period{Num: 1, Den: 60}},
		{in: "3", expected: timetraits.Period{Num: 3, Den: 1}},
		{in: "1/0", sentinel: errors.ErrInvalidPeriod},
		{in: "-1/10", sentinel: errors.ErrInvalidPeriod},
		{in: "a/b", sentinel: errors.ErrInvalidArgument},
		{in: "", sentinel: errors.ErrInvalidArgument},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			p, err := parsePeriod(tc.in)
			if tc.sentinel != nil {
				require.ErrorIs(t, err, tc.sentinel)
				assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestProbe_TimesOut(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig().Lock
	res, err := probe(context.Background(), zerolog.Nop(), cfg, timetraits.Millisecond, 30*time.Millisecond)
	require.NoError(t, err)

	assert.False(t, res.Acquired)
	assert.EqualValues(t, 30, res.Ticks)
	assert.GreaterOrEqual(t, res.Elapsed, 25*time.Millisecond)
	assert.Less(t, res.Elapsed, 5*time.Second)
}

func TestProbe_ZeroTimeout(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig().Lock
	res, err := probe(context.Background(), zerolog.Nop(), cfg, timetraits.Period{Num: 1, Den: 60}, 0)
	require.NoError(t, err)

	assert.False(t, res.Acquired)
	assert.Zero(t, res.Ticks)
	assert.Less(t, res.Elapsed, time.Second)
}

func TestProbe_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probe(ctx, zerolog.Nop(), config.DefaultConfig().Lock, timetraits.Millisecond, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunProbe_Report(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := config.DefaultConfig().Lock
	require.NoError(t, runProbe(context.Background(), tui.NewJSONOutput(&buf), zerolog.Nop(),
		cfg, timetraits.Period{Num: 1, Den: 100}, 20*time.Millisecond))

	fields := decodeFields(t, buf.String())
	assert.Equal(t, "false", fields["acquired"])
	assert.Equal(t, "1/100s", fields["period"])
	assert.Equal(t, "20ms (2 ticks)", fields["timeout"])
	assert.Equal(t, strategyName(), fields["strategy"])
}

func TestStrategyName(t *testing.T) {
	t.Parallel()

	name := strategyName()
	assert.Contains(t, []string{"Native", "Polling"}, name)
}

func TestProbeCommand_InvalidPeriod(t *testing.T) {
	isolateHome(t)

	_, err := runCLI(t, "probe", "--period", "1/0")
	require.ErrorIs(t, err, errors.ErrInvalidPeriod)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestProbeCommand_Text(t *testing.T) {
	isolateHome(t)

	out, err := runCLI(t, "probe", "--timeout", "10ms", "--period", "1/1000")
	require.NoError(t, err)
	assert.Contains(t, out, "acquired:")
	assert.Contains(t, out, "false")
	assert.Contains(t, out, "10 ticks")
}
