// Package retry runs an operation a bounded number of times with
// exponential backoff between attempts.
package retry

import (
	"context"
	"time"
)

// Policy bounds the retry loop. MaxRetries counts attempts after the first.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration // base delay, doubled per attempt
}

// DefaultPolicy waits 100ms, 200ms, ... between attempts.
var DefaultPolicy = Policy{MaxRetries: 2, Backoff: 100 * time.Millisecond}

// Do calls fn until it succeeds, returns an error retryable rejects, the
// attempts run out, or ctx is done. It returns the last error from fn, or
// the context error if ctx ended while waiting.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	base := p.Backoff
	if base <= 0 {
		base = DefaultPolicy.Backoff
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := base * time.Duration(1<<(attempt-1))
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || retryable == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}
