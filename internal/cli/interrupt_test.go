package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptHandler_InterruptOnce(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out)
	h.SetHint("Offers imported so far were saved")

	assert.False(t, h.WasInterrupted())
	h.interrupt()
	h.interrupt()

	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Interrupted, stopping")))
	assert.Contains(t, out.String(), "Offers imported so far were saved")
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	h := NewInterruptHandler(nil)
	ctx, stop := h.HandleInterrupts(context.Background())

	assert.NoError(t, ctx.Err())
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, h.WasInterrupted())
}
