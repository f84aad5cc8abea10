package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// statusCoder is satisfied by provider SDK errors that expose the HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

func (o options) attempts() int {
	if o.retryMaxAttempts <= 0 {
		return 1
	}
	return o.retryMaxAttempts
}

// withRetry runs call until it succeeds, fails permanently, or attempts run out.
func (o options) withRetry(ctx context.Context, label string, call func(context.Context) (string, error)) (string, error) {
	attempts := o.attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		delay, retry := o.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			if attempt > 1 {
				return "", fmt.Errorf("%s: failed after %d attempts: %w", label, attempt, err)
			}
			return "", err
		}
		if err := o.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%s: retry wait: %w", label, err)
		}
	}
	return "", fmt.Errorf("%s: failed after %d attempts: %w", label, attempts, lastErr)
}

func (o options) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	status := 0
	var retryAfter time.Duration
	var statusErr *httpStatusError
	var coder statusCoder
	switch {
	case errors.As(err, &statusErr):
		status = statusErr.StatusCode
		retryAfter = statusErr.RetryAfter
	case errors.As(err, &coder):
		status = coder.HTTPStatus()
	}
	if status != 0 {
		if !retryableStatus(status) {
			return 0, false
		}
		if retryAfter > 0 {
			return o.capDelay(retryAfter), true
		}
		return o.backoffDelay(attempt), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return o.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return o.backoffDelay(attempt), true
	}
	return 0, false
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

func (o options) backoffDelay(attempt int) time.Duration {
	base := o.retryBaseDelay
	maxDelay := o.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}
	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return o.capDelay(delay)
}

func (o options) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := o.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (o options) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if o.sleeper != nil {
		o.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay
		}
	}
	return 0
}
