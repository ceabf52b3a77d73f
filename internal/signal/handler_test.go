package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InterruptCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	assert.False(t, h.WasInterrupted())
	require.NoError(t, h.Context().Err())

	h.interrupt()
	h.interrupt()

	assert.True(t, h.WasInterrupted())
	require.ErrorIs(t, h.Context().Err(), context.Canceled)

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("interrupted channel not closed")
	}
}

func TestHandler_StopIsNotAnInterrupt(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.False(t, h.WasInterrupted())
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled with parent")
	}
	assert.False(t, h.WasInterrupted())
}

func TestHandler_ReceivesSignal(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.sigChan <- fakeSignal{}

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("signal not handled")
	}
	assert.Equal(t, 130, ExitInterrupted)
}

type fakeSignal struct{}

func (fakeSignal) String() string { return "fake" }
func (fakeSignal) Signal()        {}
