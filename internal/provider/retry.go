package provider

import (
	"context"
	"time"
)

// Retry runs fn, retrying with linear backoff (attempt × base) while the
// error satisfies retryable, up to maxRetries extra attempts. The same
// combinator serves every provider call site; only the predicate varies.
func Retry(ctx context.Context, maxRetries int, base time.Duration, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !retryable(err) || attempt >= maxRetries {
			return err
		}

		delay := time.Duration(attempt+1) * base
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
