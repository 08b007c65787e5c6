package resilience

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy retries with a linear backoff: attempt n waits n*Backoff.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Retry calls fn until it succeeds, returns a Permanent error, exhausts the
// policy or ctx is done. The last error is returned unwrapped from Permanent.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) error) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 && policy.Backoff > 0 {
			timer := time.NewTimer(time.Duration(attempt) * policy.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		var p permanentError
		if errors.As(lastErr, &p) {
			return p.err
		}
	}
	return lastErr
}
