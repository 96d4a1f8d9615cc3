package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "igrelay/pkg/errors"
)

func TestConstantBackoff(t *testing.T) {
	backoff := &ConstantBackoff{Delay: 5 * time.Second}

	for attempt := 1; attempt <= 4; attempt++ {
		if delay := backoff.NextDelay(attempt); delay != 5*time.Second {
			t.Errorf("attempt %d: expected 5s delay, got %v", attempt, delay)
		}
	}

	if delay := backoff.NextDelay(0); delay != 0 {
		t.Errorf("expected zero delay for attempt 0, got %v", delay)
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("persistent error")
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error when max attempts exceeded")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithNonRetryableError(t *testing.T) {
	attempts := 0
	authError := &errs.Error{
		Type:    errs.ErrorTypeAuth,
		Message: "authentication required",
		Code:    401,
	}
	op := func() error {
		attempts++
		return authError
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error for non-retryable failure")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	op := func() error {
		attempts++
		if attempts == 1 {
			cancel()
		}
		return errors.New("error to trigger retry wait")
	}

	cfg := &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 1 * time.Second},
		RetryIf:     func(err error) bool { return true },
		Context:     ctx,
	}

	err := Do(op, cfg)
	if err == nil {
		t.Error("Expected error from cancelled retry")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in error chain, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("temporary error")
		}
		return "ok", nil
	}

	cfg := &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Context:     context.Background(),
	}

	result, err := DoWithResult(op, cfg)
	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected result %q, got %q", "ok", result)
	}
}

func TestFixedPolicy(t *testing.T) {
	cfg := FixedPolicy(3, 5*time.Second, nil)

	if cfg.MaxAttempts != 3 {
		t.Errorf("Expected 3 max attempts, got %d", cfg.MaxAttempts)
	}

	cb, ok := cfg.Backoff.(*ConstantBackoff)
	if !ok {
		t.Fatalf("Expected ConstantBackoff, got %T", cfg.Backoff)
	}
	if cb.Delay != 5*time.Second {
		t.Errorf("Expected 5s delay, got %v", cb.Delay)
	}
	if cb.NextDelay(2) != cb.NextDelay(5) {
		t.Error("Expected no backoff growth between attempts")
	}
}
