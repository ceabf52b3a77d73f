// Package main provides the entry point for the relock CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/relock/internal/cli"
	"github.com/mrz1836/relock/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"     //nolint:gochecknoglobals // ldflags target
	commit  = "none"    //nolint:gochecknoglobals // ldflags target
	date    = "unknown" //nolint:gochecknoglobals // ldflags target
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	h.Stop()

	if h.WasInterrupted() {
		os.Exit(signal.ExitInterrupted)
	}
	os.Exit(cli.ExitCodeForError(err))
}
