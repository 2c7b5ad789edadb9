package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// StatusError is returned for an HTTP response with an unexpected status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("unexpected response (status %d): %s", e.StatusCode, e.Body)
}

// LogFunc is a callback for logging retry attempts
type LogFunc func(attempt int, maxAttempts int, backoff time.Duration, err error)

// Options controls how Do retries.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	OnRetry        LogFunc
}

// Do executes fn with exponential backoff until it succeeds, maxAttempts is
// reached or ctx is done. The backoff doubles after each failed attempt and is
// doubled again for rate limited responses. Non-retryable errors return
// immediately.
func Do(ctx context.Context, fn func() error, opts Options) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	return retrygo.Do(
		fn,
		retrygo.Context(ctx),
		retrygo.Attempts(uint(opts.MaxAttempts)),
		retrygo.LastErrorOnly(true),
		retrygo.RetryIf(func(err error) bool {
			return ctx.Err() == nil && (IsRetryable(err) || IsRateLimited(err))
		}),
		retrygo.DelayType(func(n uint, err error, _ *retrygo.Config) time.Duration {
			return Backoff(opts.InitialBackoff, int(n), err)
		}),
		retrygo.OnRetry(func(n uint, err error) {
			attempt := int(n) + 1
			if opts.OnRetry != nil && attempt < opts.MaxAttempts {
				opts.OnRetry(attempt, opts.MaxAttempts, Backoff(opts.InitialBackoff, attempt, err), err)
			}
		}),
	)
}

// Backoff returns the wait after the given number of failed attempts.
func Backoff(initial time.Duration, failures int, err error) time.Duration {
	if failures < 1 {
		failures = 1
	}
	if failures > 16 {
		failures = 16
	}
	backoff := initial * time.Duration(1<<(failures-1))
	if IsRateLimited(err) {
		backoff *= 2
	}
	return backoff
}

// IsRetryable returns true if the error is a transient error that should be retried.
// This includes network timeouts and 5xx server errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "temporary failure") {
		return true
	}

	return false
}

// IsRateLimited returns true if the error indicates rate limiting (HTTP 429).
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests
}
