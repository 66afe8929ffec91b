package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docshelf/internal/contentstore"
)

const (
	MaxRetries = 3
	maxBackoff = 30 * time.Second
)

// IsRetryable reports whether err is a transient content store failure.
func IsRetryable(err error) bool {
	var retryErr *contentstore.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns the wait before retry n (0-indexed): 1s doubling up to
// maxBackoff, plus up to 50% jitter.
func Backoff(attempt int) time.Duration {
	base := min(time.Second<<attempt, maxBackoff)
	return base + time.Duration(rand.Int64N(int64(base)/2))
}

// retryDelay honours a server-supplied Retry-After and otherwise falls back
// to backoff.
func retryDelay(err error, attempt int, backoff func(int) time.Duration) time.Duration {
	var retryErr *contentstore.RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return min(retryErr.RetryAfter, maxBackoff)
	}
	return backoff(attempt)
}
