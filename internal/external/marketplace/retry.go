package marketplace

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig holds configuration for retry with exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// doWithRetry runs fn until it succeeds, returns a non-retryable error or
// runs out of attempts. Only ErrServiceUnavailable is retried.
func doWithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.Is(err, ErrServiceUnavailable) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(backoff(attempt, cfg.BaseDelay, cfg.MaxDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// backoff is baseDelay * 2^attempt with +-25% jitter, capped at maxDelay.
func backoff(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := float64(baseDelay) * math.Pow(2, float64(attempt))
	delay += delay * 0.25 * (rand.Float64()*2 - 1)

	if maxDelay > 0 && delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	return time.Duration(delay)
}
