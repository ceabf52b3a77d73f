package cli

import (
	stderrors "errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/relock/internal/clock"
	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/errors"
	"github.com/mrz1836/relock/internal/lockfile"
	"github.com/mrz1836/relock/internal/tui"
)

// AddHolderCommand adds the holder command to the root command.
func AddHolderCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "holder <name>",
		Short: "Show who holds a lock file",
		Long: `Print the holder record of the lock file <lock_dir>/<name>.lock.

Examples:
  relock holder deploy
  relock holder deploy --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.Context())
			return runHolder(newOutput(cmd.OutOrStdout(), flags), cfg.Lock, args[0], clock.RealClock{})
		},
	}

	root.AddCommand(cmd)
}

func runHolder(out tui.Output, cfg config.LockConfig, name string, c clock.Clock) error {
	path, err := lockPath(cfg, name)
	if err != nil {
		return err
	}

	h, err := lockfile.ReadHolder(path)
	switch {
	case stderrors.Is(err, errors.ErrNoHolder), stderrors.Is(err, fs.ErrNotExist):
		out.Info(name + " is free")
		return nil
	case err != nil:
		return err
	}

	out.Fields([]tui.Field{
		{Key: "lock", Value: name},
		{Key: "path", Value: path},
		{Key: "holder", Value: h.ID},
		{Key: "pid", Value: strconv.Itoa(h.PID)},
		{Key: "host", Value: h.Host},
		{Key: "acquired", Value: h.AcquiredAt.Format(time.RFC3339) + " (" + tui.RelativeTimeWith(h.AcquiredAt, c) + ")"},
	})
	return nil
}
