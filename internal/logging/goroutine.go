// Package logging provides zerolog hooks shared by relock commands.
package logging

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/relock/internal/goid"
)

// GoroutineField is the event field carrying the emitting goroutine's id.
const GoroutineField = "goroutine"

// GoroutineHook is a zerolog hook that stamps each event with the id of the
// goroutine that emitted it, so lock ownership can be followed in the logs.
// Events from goroutines whose id cannot be read are left unstamped.
type GoroutineHook struct{}

// NewGoroutineHook creates a new GoroutineHook.
func NewGoroutineHook() *GoroutineHook {
	return &GoroutineHook{}
}

// Run implements the zerolog.Hook interface.
func (h *GoroutineHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := goid.Current(); id != 0 {
		e.Int64(GoroutineField, id)
	}
}
