package engine

import (
	"fmt"
)

// ValidationError reports malformed input. When Op is non-empty the check
// failed client-side before any network call; otherwise it carries
// server-supplied detail from a 400/422 response.
type ValidationError struct {
	Op     string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("invalid input: %s", e.Detail)
}

// NetworkError is a transport-level failure: connection refused, DNS,
// per-call timeout. Always classified transient.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError reports a response body that could not be decoded as the
// expected content type, including responses missing required fields.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unparseable response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NotFoundError reports a 404 for a named resource.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AuthorizationError reports a 401 or 403 from the engine. It never
// includes the configured credentials.
type AuthorizationError struct {
	Op         string
	StatusCode int
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: not authorized (status %d)", e.Op, e.StatusCode)
}

// RemoteError is any other non-2xx response that survived retries.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: engine returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// RetryExhaustedError wraps the last classified error after the retry
// budget is spent.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// PollingExhaustedError reports that a completion wait saw too many
// consecutive failed polls and gave up.
type PollingExhaustedError struct {
	ExecutionID string
	Failures    int
	Err         error
}

func (e *PollingExhaustedError) Error() string {
	return fmt.Sprintf("execution %q: %d consecutive polls failed: %v", e.ExecutionID, e.Failures, e.Err)
}

func (e *PollingExhaustedError) Unwrap() error { return e.Err }
