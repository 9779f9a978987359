package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/larder/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return SourceUnavailable("offers", errors.New("timeout"))
		}
		return nil
	}, fastRetry(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return InvalidState("list completed")
	}, fastRetry(5))

	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return ErrSourceUnavailable
	}, fastRetry(3))

	require.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return ErrSourceUnavailable
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
