package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsEventually(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_Exhausted(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(_ context.Context) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Retry(ctx, 5, 50*time.Millisecond, func(_ context.Context) error {
		attempts++
		cancel()
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestBackoff(t *testing.T) {
	assert.Zero(t, Backoff(time.Second, 0))

	for attempt := 1; attempt <= 5; attempt++ {
		base := time.Second * time.Duration(1<<uint(attempt-1))
		got := Backoff(time.Second, attempt)
		// Jitter stays within 25% of the exponential delay.
		assert.GreaterOrEqual(t, got, base-base/4)
		assert.LessOrEqual(t, got, base+base/4)
	}

	// Large attempts are capped.
	assert.LessOrEqual(t, Backoff(time.Second, 40), 30*time.Second+30*time.Second/4)
}
