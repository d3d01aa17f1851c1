package infra_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"first-aid/internal/infra"
)

func fastRetry() infra.RetryConfig {
	return infra.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		return errors.New("still down")
	})
	if err == nil || err.Error() != "still down" {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad request")
	calls := 0

	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		return infra.Permanent(cause)
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if infra.Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		return context.Canceled
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("expected immediate context.Canceled, got %v after %d calls", err, calls)
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	retryable := []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusGatewayTimeout}
	for _, code := range retryable {
		if !infra.IsRetryableHTTPStatus(code) {
			t.Errorf("expected %d to be retryable", code)
		}
	}
	for _, code := range []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		if infra.IsRetryableHTTPStatus(code) {
			t.Errorf("expected %d not to be retryable", code)
		}
	}
}
