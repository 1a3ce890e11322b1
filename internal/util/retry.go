package util

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// BackoffSettings controls RetryWithBackoff. The zero value is not usable;
// call DefaultBackoff for the standard policy.
type BackoffSettings struct {
	MaxTries     int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	StepIncrease float64
	JitterFactor float64
}

// DefaultBackoff matches the LLM-call retry policy: up to 5 attempts,
// 2s base delay growing 1.8x per attempt, capped at 120s, with ±20% jitter.
func DefaultBackoff() BackoffSettings {
	return BackoffSettings{
		MaxTries:     5,
		BaseDelay:    2 * time.Second,
		MaxDelay:     120 * time.Second,
		StepIncrease: 1.8,
		JitterFactor: 0.2,
	}
}

func (s BackoffSettings) delay(attempt int) time.Duration {
	d := float64(s.BaseDelay)
	for i := 0; i < attempt; i++ {
		d *= s.StepIncrease
		if d >= float64(s.MaxDelay) {
			d = float64(s.MaxDelay)
			break
		}
	}
	jitter := 1 + s.JitterFactor*(2*rand.Float64()-1)
	d *= jitter
	if d > float64(s.MaxDelay) {
		d = float64(s.MaxDelay)
	}
	return time.Duration(d)
}

// RetryWithBackoff calls fn until it succeeds, the context is done, or the
// attempt budget is spent. Between attempts it sleeps with exponential
// backoff and jitter. Errors for which recoverable returns false are
// returned immediately without further attempts; a nil recoverable retries
// every error.
func RetryWithBackoff[T any](
	ctx context.Context,
	settings BackoffSettings,
	recoverable func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	if settings.MaxTries <= 0 {
		settings.MaxTries = 1
	}

	var lastErr error
	for attempt := 0; attempt < settings.MaxTries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if recoverable != nil && !recoverable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == settings.MaxTries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(settings.delay(attempt)):
		}
	}
	return zero, lastErr
}

// RetryErrWithContext calls fn up to maxTries times until it returns nil.
// Context cancellation aborts immediately. Used for store writes where the
// caller wants plain bounded retries without backoff.
func RetryErrWithContext(ctx context.Context, maxTries int, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
