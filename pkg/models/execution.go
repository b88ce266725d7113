package models

import (
	"time"
)

// ExecutionStatus is the lifecycle state of a single workflow run. Remote
// transitions are monotonic toward a terminal state and never revert.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusRunning   ExecutionStatus = "running"
	StatusSucceeded ExecutionStatus = "succeeded"
	StatusFailed    ExecutionStatus = "failed"
	StatusCancelled ExecutionStatus = "cancelled"

	// StatusTimedOut is assigned locally when a wait budget expires while
	// the remote execution is still in flight. The engine never reports it.
	StatusTimedOut ExecutionStatus = "timed_out"
)

// Terminal reports whether the engine will make no further transitions
// from this status.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Execution is one run instance of a workflow.
type Execution struct {
	ID          string                `json:"id"`
	WorkflowID  string                `json:"workflow_id"`
	Status      ExecutionStatus       `json:"status"`
	TaskOutputs map[string]TaskOutput `json:"task_outputs,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	EndedAt     *time.Time            `json:"ended_at,omitempty"`
}

// TaskOutput is the recorded output of one task within an execution.
type TaskOutput struct {
	TaskID     string         `json:"task_id"`
	Status     string         `json:"status,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// ExecutionRef is the engine's acknowledgement of a newly submitted run.
type ExecutionRef struct {
	ExecutionID string          `json:"execution_id"`
	WorkflowID  string          `json:"workflow_id,omitempty"`
	Status      ExecutionStatus `json:"status"`
}

// LogEntry is one line of execution output.
type LogEntry struct {
	Level     string    `json:"level"`
	TaskID    string    `json:"task_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ExecutionLogs bundles the log stream of a single execution.
type ExecutionLogs struct {
	ExecutionID string     `json:"execution_id"`
	Logs        []LogEntry `json:"logs"`
}

// ExecutionPage is one page of a workflow's execution history. Ordering is
// engine-defined and passed through unmodified.
type ExecutionPage struct {
	WorkflowID string      `json:"workflow_id"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int         `json:"total"`
	Executions []Execution `json:"executions"`
	Logs       []LogEntry  `json:"logs,omitempty"`
}
