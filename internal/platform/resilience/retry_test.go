package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	t.Parallel()

	transient := errors.New("transient")
	fatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  int
		failWith  error
		retries   int
		wantErr   error
		wantCalls int
	}{
		{name: "first try", failures: 0, retries: 2, wantCalls: 1},
		{name: "recovers", failures: 2, failWith: transient, retries: 2, wantCalls: 3},
		{name: "exhausted", failures: 5, failWith: transient, retries: 2, wantErr: transient, wantCalls: 3},
		{name: "permanent", failures: 5, failWith: Permanent(fatal), retries: 4, wantErr: fatal, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := Retry(context.Background(), RetryPolicy{MaxRetries: tc.retries, Backoff: time.Millisecond}, func(context.Context, int) error {
				calls++
				if calls <= tc.failures {
					return tc.failWith
				}
				return nil
			})
			if !errors.Is(err, tc.wantErr) || (tc.wantErr == nil && err != nil) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.wantErr)
			}
			if IsPermanent(err) {
				t.Fatalf("returned error must not carry the permanent marker")
			}
			if calls != tc.wantCalls {
				t.Fatalf("unexpected calls: got=%d want=%d", calls, tc.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{MaxRetries: 3, Backoff: time.Hour}, func(context.Context, int) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got=%v want=%v", err, context.Canceled)
	}
	if calls != 1 {
		t.Fatalf("got=%d want=1 calls", calls)
	}
}
