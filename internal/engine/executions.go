package engine

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"workflow-engine-mcp/pkg/models"
)

// ExecuteWorkflow submits a new run of a workflow. Inputs are an opaque
// key-value mapping whose schema belongs to the workflow, not the client.
func (c *Client) ExecuteWorkflow(ctx context.Context, workflowID string, inputs map[string]any) (*models.ExecutionRef, error) {
	const op = "execute_workflow"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}
	if inputs == nil {
		inputs = map[string]any{}
	}

	var out models.ExecutionRef
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   fmt.Sprintf("/workflows/%s/execute", workflowID),
		body:   map[string]any{"inputs": inputs},
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ExecutionID == "" {
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("engine response missing execution_id")}
	}
	return &out, nil
}

// GetExecutionStatus fetches the current state of one execution.
func (c *Client) GetExecutionStatus(ctx context.Context, executionID string) (*models.Execution, error) {
	const op = "get_execution_status"
	if err := requireUUID(op, "execution_id", executionID); err != nil {
		return nil, err
	}

	var out models.Execution
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/executions/" + executionID,
		kind:   "execution",
		id:     executionID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListExecutions returns every execution, in engine order.
func (c *Client) ListExecutions(ctx context.Context) ([]models.Execution, error) {
	const op = "get_all_executions"
	var out struct {
		Executions []models.Execution `json:"executions"`
	}
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/executions",
		kind:   "execution",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Executions, nil
}

// GetExecutionLogs fetches the log stream of one execution.
func (c *Client) GetExecutionLogs(ctx context.Context, executionID string) (*models.ExecutionLogs, error) {
	const op = "get_execution_logs"
	if err := requireUUID(op, "execution_id", executionID); err != nil {
		return nil, err
	}

	var out models.ExecutionLogs
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/executions/%s/logs", executionID),
		kind:   "execution",
		id:     executionID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTaskOutput fetches the detailed output of one task within an
// execution.
func (c *Client) GetTaskOutput(ctx context.Context, executionID, taskID string) (*models.TaskOutput, error) {
	const op = "get_task_output"
	if err := requireUUID(op, "execution_id", executionID); err != nil {
		return nil, err
	}
	if err := requireID(op, "task_id", taskID); err != nil {
		return nil, err
	}

	var out models.TaskOutput
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/executions/%s/tasks/%s", executionID, taskID),
		kind:   "task",
		id:     taskID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// WorkflowExecutionsQuery narrows a paginated execution-history request.
type WorkflowExecutionsQuery struct {
	Page        int
	PerPage     int
	Status      models.ExecutionStatus
	IncludeLogs bool
}

// ListWorkflowExecutions fetches one page of a workflow's execution
// history, optionally filtered by status.
func (c *Client) ListWorkflowExecutions(ctx context.Context, workflowID string, q WorkflowExecutionsQuery) (*models.ExecutionPage, error) {
	const op = "get_workflow_execution_logs"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}

	query := map[string]string{
		"page":         strconv.Itoa(q.Page),
		"per_page":     strconv.Itoa(q.PerPage),
		"include_logs": strconv.FormatBool(q.IncludeLogs),
	}
	if q.Status != "" {
		query["status"] = string(q.Status)
	}

	var out models.ExecutionPage
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/workflows/%s/executions/logs", workflowID),
		query:  query,
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
