// Package retry provides a generic retry decorator for calls to flaky
// external services.
package retry

import (
	"context"
	"time"
)

// Policy describes how Do retries. Attempts is the total number of
// calls, not the number of retries; values below 1 mean a single call.
// Retryable decides whether an error is worth another attempt; a nil
// predicate disables retrying. OnRetry, when set, is invoked before
// each wait with the failing error and the attempt number.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
	OnRetry   func(err error, attempt int)
}

// Do runs fn under the policy. A context cancelled during the wait
// between attempts aborts with ctx.Err(); otherwise the result of the
// last attempt is returned as-is.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		out, err := fn(ctx)
		if err == nil || attempt >= attempts || p.Retryable == nil || !p.Retryable(err) {
			return out, err
		}
		if p.OnRetry != nil {
			p.OnRetry(err, attempt)
		}
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
