package models

import (
	"time"
)

// Workflow is the engine's definition of an automation pipeline. The engine
// owns the record; the client only holds transient representations fetched
// per call.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Definition  map[string]any `json:"definition,omitempty"`   // structured task graph
	YAMLContent string         `json:"yaml_content,omitempty"` // raw document, as submitted
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateWorkflowRequest carries either a raw YAML document or a structured
// definition, never both.
type CreateWorkflowRequest struct {
	YAMLContent  string         `json:"yaml_content,omitempty"`
	WorkflowData map[string]any `json:"workflow_data,omitempty"`
}

// UpdateWorkflowRequest updates workflow metadata. Nil fields are omitted
// from the payload and left untouched by the engine.
type UpdateWorkflowRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Version     *string `json:"version,omitempty"`
}

// ValidationResult is the engine's verdict on a submitted YAML document.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// InputFormat describes the input schema a workflow expects.
type InputFormat struct {
	WorkflowID string         `json:"workflow_id"`
	Schema     map[string]any `json:"input_schema,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// WorkflowDashboard aggregates workflow and execution statistics. All
// numbers are computed server-side and passed through as-is.
type WorkflowDashboard struct {
	WorkflowID string         `json:"workflow_id"`
	Stats      ExecutionStats `json:"execution_statistics"`
	Metrics    map[string]any `json:"dashboard_metrics,omitempty"`
}

// ExecutionStats is the per-workflow statistics block inside a dashboard.
type ExecutionStats struct {
	TotalExecutions  int     `json:"total_executions"`
	SuccessRate      float64 `json:"success_rate"`
	FailureRate      float64 `json:"failure_rate"`
	AvgDurationSecs  float64 `json:"avg_duration_seconds"`
	TotalRuntimeHrs  float64 `json:"total_runtime_hours"`
	FirstExecutionAt string  `json:"first_execution_at,omitempty"`
	LastExecutionAt  string  `json:"last_execution_at,omitempty"`
}
