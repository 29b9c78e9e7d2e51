package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gitgauge/gitgauge/internal/errors"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
	Retryable     func(error) bool
}

// DefaultRetryConfig returns sensible defaults for external API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
		Retryable:     errors.IsRetryable,
	}
}

// RetryableFunc represents a function that can be retried.
type RetryableFunc func() error

// RetryWithConfig executes fn with exponential backoff until it succeeds,
// returns a non-retryable error, exhausts attempts, or the context ends.
func RetryWithConfig(ctx context.Context, config RetryConfig, fn RetryableFunc) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !config.Retryable(err) {
			break
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(calculateDelay(config, attempt)):
		}
	}

	return lastErr
}

// Retry executes fn with the default retry configuration.
func Retry(ctx context.Context, fn RetryableFunc) error {
	return RetryWithConfig(ctx, DefaultRetryConfig(), fn)
}

// calculateDelay computes the backoff delay for the next attempt.
func calculateDelay(config RetryConfig, attempt int) time.Duration {
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt)))

	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	if config.JitterEnabled && delay > 0 {
		// Up to 10% jitter to avoid synchronized retries.
		delay += time.Duration(rand.Int63n(int64(delay/10) + 1))
	}

	return delay
}
