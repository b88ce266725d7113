package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workflow-engine-mcp/internal/config"
	"workflow-engine-mcp/internal/logging"
	"workflow-engine-mcp/pkg/models"
)

// WaitState is the waiter's local state. Terminal states are succeeded,
// failed, timed_out and cancelled; waiting and polling are transient.
type WaitState string

const (
	StateWaiting   WaitState = "waiting"
	StatePolling   WaitState = "polling"
	StateSucceeded WaitState = "succeeded"
	StateFailed    WaitState = "failed"
	StateTimedOut  WaitState = "timed_out"
	StateCancelled WaitState = "cancelled"
)

// WaitOptions tunes one wait. Zero values fall back to the waiter's
// configured defaults.
type WaitOptions struct {
	PollInterval     time.Duration
	MaxWait          time.Duration
	FailureThreshold int
}

// WaitReport is the outcome of a completion wait. A timed-out or cancelled
// wait is a reported outcome, not an error: the remote execution may still
// be running.
type WaitReport struct {
	ExecutionID string                 `json:"execution_id"`
	State       WaitState              `json:"state"`
	FinalStatus models.ExecutionStatus `json:"final_status,omitempty"`
	Execution   *models.Execution      `json:"execution,omitempty"`
	Polls       int                    `json:"polls"`
	Elapsed     time.Duration          `json:"elapsed"`
	Updates     []string               `json:"status_updates,omitempty"`
}

// StatusGetter is the slice of the client the waiter needs.
type StatusGetter interface {
	GetExecutionStatus(ctx context.Context, executionID string) (*models.Execution, error)
}

// Waiter polls an execution until it reaches a terminal state, the wait
// budget expires, or the caller cancels. Each Wait call owns its own loop
// state; a Waiter is safe for concurrent use.
type Waiter struct {
	client           StatusGetter
	log              logging.Logger
	pollInterval     time.Duration
	maxWait          time.Duration
	failureThreshold int
	now              func() time.Time
}

const defaultMaxWait = 5 * time.Minute

// NewWaiter builds a waiter with defaults from the request context.
func NewWaiter(client StatusGetter, cfg *config.Config, log logging.Logger) *Waiter {
	return &Waiter{
		client:           client,
		log:              log,
		pollInterval:     cfg.Poll.Interval,
		maxWait:          defaultMaxWait,
		failureThreshold: cfg.Poll.FailureThreshold,
		now:              time.Now,
	}
}

// Wait polls executionID until completion. The per-call HTTP timeout and
// the overall MaxWait budget are independent; both are honored.
// Cancellation is checked at every suspension point and yields a cancelled
// report with no further polls.
func (w *Waiter) Wait(ctx context.Context, executionID string, opts WaitOptions) (*WaitReport, error) {
	const op = "wait_for_execution_completion"
	if err := requireUUID(op, "execution_id", executionID); err != nil {
		return nil, err
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = w.pollInterval
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = w.maxWait
	}
	threshold := opts.FailureThreshold
	if threshold < 1 {
		threshold = w.failureThreshold
	}

	report := &WaitReport{ExecutionID: executionID, State: StateWaiting}
	start := w.now()
	deadline := start.Add(maxWait)

	var (
		consecutiveFailures int
		lastPollErr         error
	)

	for {
		if err := ctx.Err(); err != nil {
			return w.cancelled(report, start), nil
		}

		report.State = StatePolling
		report.Polls++

		exec, err := w.client.GetExecutionStatus(ctx, executionID)
		elapsed := w.now().Sub(start)
		switch {
		case err == nil:
			consecutiveFailures = 0
			lastPollErr = nil
			report.Execution = exec
			report.FinalStatus = exec.Status
			report.Updates = append(report.Updates,
				fmt.Sprintf("[%.1fs] status: %s", elapsed.Seconds(), exec.Status))

			if exec.Status.Terminal() {
				report.State = terminalState(exec.Status)
				report.Elapsed = elapsed
				return report, nil
			}
		case permanentPollError(err):
			// The execution is gone or the request itself is bad; more
			// polls cannot change that.
			report.State = StateFailed
			report.Elapsed = elapsed
			return report, err
		default:
			consecutiveFailures++
			lastPollErr = err
			report.Updates = append(report.Updates,
				fmt.Sprintf("[%.1fs] poll failed: %v", elapsed.Seconds(), err))
			w.log.Warn("execution poll failed",
				"execution_id", executionID, "consecutive", consecutiveFailures, "error", err)

			if consecutiveFailures >= threshold {
				report.State = StateFailed
				report.Elapsed = elapsed
				return report, &PollingExhaustedError{
					ExecutionID: executionID,
					Failures:    consecutiveFailures,
					Err:         lastPollErr,
				}
			}
		}

		if !w.now().Add(interval).Before(deadline) {
			report.State = StateTimedOut
			report.Elapsed = w.now().Sub(start)
			return report, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return w.cancelled(report, start), nil
		case <-timer.C:
		}
	}
}

func (w *Waiter) cancelled(report *WaitReport, start time.Time) *WaitReport {
	report.State = StateCancelled
	report.Elapsed = w.now().Sub(start)
	return report
}

// terminalState maps a remote terminal status onto the waiter's state.
func terminalState(status models.ExecutionStatus) WaitState {
	switch status {
	case models.StatusSucceeded:
		return StateSucceeded
	case models.StatusCancelled:
		return StateCancelled
	default:
		return StateFailed
	}
}

// permanentPollError reports whether a poll failure can never recover.
// Transient classes (network, retry exhaustion, remote 5xx, decode blips)
// are absorbed up to the failure threshold instead.
func permanentPollError(err error) bool {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		authz      *AuthorizationError
	)
	return errors.As(err, &notFound) || errors.As(err, &validation) || errors.As(err, &authz)
}
