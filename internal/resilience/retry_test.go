package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitgauge/gitgauge/internal/errors"
)

func fastConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), fastConfig(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return apperrors.NewTransientError("flaky", nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), fastConfig(), func() error {
		calls++
		return apperrors.NewNotFoundError("ghost")
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := RetryWithConfig(context.Background(), fastConfig(), func() error {
		calls++
		return apperrors.NewTransientError("still down", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithConfig(ctx, fastConfig(), func() error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateDelayBacksOffAndCaps(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, 100*time.Millisecond, calculateDelay(cfg, 0))
	assert.Equal(t, 200*time.Millisecond, calculateDelay(cfg, 1))
	assert.Equal(t, 300*time.Millisecond, calculateDelay(cfg, 2), "capped at MaxDelay")
}

func TestCalculateDelayJitterStaysBounded(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}

	for i := 0; i < 50; i++ {
		d := calculateDelay(cfg, 0)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}
