// Package util provides small shared helpers.
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultRetries is the bounded retry count for provider calls.
const DefaultRetries = 3

// DefaultRetryDelay is the base delay before the first retry.
const DefaultRetryDelay = time.Second

// maxBackoff caps the exponential backoff.
const maxBackoff = 30 * time.Second

// Backoff returns the exponential backoff delay for a retry attempt with
// random jitter of up to 25% in either direction.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt-1))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// Retry runs fn up to retries times, sleeping with exponential backoff
// between attempts. The last error is returned when all attempts fail.
// Context cancellation aborts the wait and returns the context error.
func Retry(ctx context.Context, retries int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == retries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Backoff(baseDelay, attempt)):
		}
	}
	return lastErr
}
