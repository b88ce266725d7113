package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"workflow-engine-mcp/internal/config"
)

const retryJitter = 100 * time.Millisecond

// Operation is a single transport call, retried as a unit.
type Operation func(ctx context.Context) (*Response, error)

// RetryPolicy wraps transport calls with bounded exponential backoff.
// Transient failures are network errors and HTTP 5xx or 429; everything
// else surfaces immediately. Attempt i (0-indexed) waits
// backoffBase * 2^i, capped at backoffMax, with jitter.
type RetryPolicy struct {
	maxAttempts int
	backoffBase time.Duration
	backoffMax  time.Duration
}

// NewRetryPolicy builds a policy from the request context. MaxRetries is
// the total attempt budget, not the count of re-attempts.
func NewRetryPolicy(cfg *config.Config) *RetryPolicy {
	attempts := cfg.Retry.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	return &RetryPolicy{
		maxAttempts: attempts,
		backoffBase: cfg.Retry.BackoffBase,
		backoffMax:  cfg.Retry.BackoffMax,
	}
}

// Do runs op until it yields a non-transient outcome or the attempt budget
// is spent. Non-2xx statuses outside the transient set are returned as a
// Response for the caller to map; exhaustion yields *RetryExhaustedError
// wrapping the last classified error.
func (p *RetryPolicy) Do(ctx context.Context, op Operation) (*Response, error) {
	backoff := retry.NewExponential(p.backoffBase)
	backoff = retry.WithCappedDuration(p.backoffMax, backoff)
	backoff = retry.WithJitter(retryJitter, backoff)
	backoff = retry.WithMaxRetries(uint64(p.maxAttempts-1), backoff)

	var (
		resp     *Response
		lastErr  error
		attempts int
	)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		r, callErr := op(ctx)
		if callErr != nil {
			var netErr *NetworkError
			if errors.As(callErr, &netErr) {
				lastErr = callErr
				return retry.RetryableError(callErr)
			}
			return callErr
		}

		if transientStatus(r.StatusCode) {
			lastErr = &RemoteError{StatusCode: r.StatusCode, Body: string(r.Body)}
			return retry.RetryableError(lastErr)
		}

		resp = r
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if lastErr != nil && errors.Is(err, lastErr) {
			return nil, &RetryExhaustedError{Attempts: attempts, Err: lastErr}
		}
		return nil, err
	}

	return resp, nil
}

func transientStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
