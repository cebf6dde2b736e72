package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy runs out of attempts. onRetry, when set, observes each retry.
func Retry(
	ctx context.Context,
	policy RetryPolicy,
	sleep Sleeper,
	retryable func(error) bool,
	onRetry func(attempt int, err error),
	fn func(ctx context.Context) error,
) error {
	policy = NormalizeRetryPolicy(policy)
	if sleep == nil {
		sleep = SleepContext
	}

	delay := policy.Backoff
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable == nil || !retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, lastErr)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = nextDelay(delay, policy)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, policy.MaxAttempts, lastErr)
}

func nextDelay(current time.Duration, policy RetryPolicy) time.Duration {
	if policy.Multiplier <= 1 {
		return current
	}
	next := time.Duration(float64(current) * policy.Multiplier)
	if policy.MaxBackoff > 0 && next > policy.MaxBackoff {
		return policy.MaxBackoff
	}
	return next
}
