package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastBackoff(maxTries int) BackoffSettings {
	return BackoffSettings{
		MaxTries:     maxTries,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		StepIncrease: 1.8,
		JitterFactor: 0.2,
	}
}

func TestRetryWithBackoff_SuccessImmediate(t *testing.T) {
	result, err := RetryWithBackoff(context.Background(), fastBackoff(3), nil,
		func(ctx context.Context) (int, error) {
			return 42, nil
		})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != 42 {
		t.Fatalf("expected 42, got %d", result)
	}
}

func TestRetryWithBackoff_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result, err := RetryWithBackoff(context.Background(), fastBackoff(3), nil,
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_GivesUpAfterMaxTries(t *testing.T) {
	calls := 0
	_, err := RetryWithBackoff(context.Background(), fastBackoff(4), nil,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("persistent")
		})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "persistent" {
		t.Fatalf("expected persistent error, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_NonRecoverableNotRetried(t *testing.T) {
	calls := 0
	fatal := errors.New("schema violation")
	_, err := RetryWithBackoff(context.Background(), fastBackoff(5),
		func(err error) bool { return !errors.Is(err, fatal) },
		func(ctx context.Context) (int, error) {
			calls++
			return 0, fatal
		})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := RetryWithBackoff(ctx, fastBackoff(3), nil,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("never seen")
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 calls, got %d", calls)
	}
}

func TestRetryErrWithContext_StopsOnSuccess(t *testing.T) {
	calls := 0
	err := RetryErrWithContext(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestBackoffDelay_Capped(t *testing.T) {
	s := BackoffSettings{
		MaxTries:     10,
		BaseDelay:    time.Second,
		MaxDelay:     3 * time.Second,
		StepIncrease: 2.0,
		JitterFactor: 0,
	}
	if got := s.delay(8); got > 3*time.Second {
		t.Fatalf("delay not capped: %v", got)
	}
}
