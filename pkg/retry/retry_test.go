package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/niksmo/shop-pos/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func TestDo(t *testing.T) {
	fast := retry.LinearBackoff(time.Millisecond)

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), retry.Config{MaxAttempts: 3, Backoff: fast}, func() error {
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ReturnsLastError", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), retry.Config{MaxAttempts: 2, Backoff: fast}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
	})

	t.Run("StopsOnPermanentError", func(t *testing.T) {
		permanent := errors.New("permanent")
		var calls int
		err := retry.Do(t.Context(), retry.Config{MaxAttempts: 5, Backoff: fast}, func() error {
			calls++
			return retry.Permanent(permanent)
		})
		require.Equal(t, permanent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("CustomShouldRetry", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), retry.Config{
			MaxAttempts: 5,
			Backoff:     fast,
			ShouldRetry: func(err error) bool { return !errors.Is(err, errTemporary) },
		}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := retry.Do(ctx, retry.Config{}, func() error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		err := retry.Do(ctx, retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Hour),
		}, func() error {
			cancel()
			return errTemporary
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errTemporary)
	})

	t.Run("MaxDelayCapsWait", func(t *testing.T) {
		var calls int
		start := time.Now()
		err := retry.Do(t.Context(), retry.Config{
			MaxAttempts: 2,
			Backoff:     retry.LinearBackoff(time.Hour),
			MaxDelay:    time.Millisecond,
		}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
		assert.Less(t, time.Since(start), time.Minute)
	})
}

func TestRetryable(t *testing.T) {
	assert.True(t, retry.Retryable(errTemporary))
	assert.False(t, retry.Retryable(retry.Permanent(errTemporary)))
	assert.False(t, retry.Retryable(fmt.Errorf("wrapped: %w", retry.Permanent(errTemporary))))
	assert.False(t, retry.Retryable(context.DeadlineExceeded))
	assert.Nil(t, retry.Permanent(nil))
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := (10 * time.Millisecond) << attempt
		d := b(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDoWithResult(t *testing.T) {
	v, err := retry.DoWithResult(t.Context(), retry.Config{}, func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
