package engine

import (
	"context"
	"fmt"
	"net/http"

	"workflow-engine-mcp/pkg/models"
)

// CreateWorkflow registers a new workflow from either a raw YAML document
// or a structured definition, never both. YAML is validated structurally
// before any network call and sent to the engine as-is.
func (c *Client) CreateWorkflow(ctx context.Context, in models.CreateWorkflowRequest) (*models.Workflow, error) {
	const op = "create_workflow"
	if in.YAMLContent == "" && in.WorkflowData == nil {
		return nil, &ValidationError{Op: op, Detail: "either yaml_content or workflow_data is required"}
	}
	if in.YAMLContent != "" && in.WorkflowData != nil {
		return nil, &ValidationError{Op: op, Detail: "yaml_content and workflow_data are mutually exclusive"}
	}
	if in.YAMLContent != "" {
		if err := validateWorkflowYAML(op, in.YAMLContent); err != nil {
			return nil, err
		}
	}

	var out models.Workflow
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/workflows",
		body:   in,
		kind:   "workflow",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWorkflow fetches one workflow by identifier.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (*models.Workflow, error) {
	const op = "get_workflow"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}

	var out models.Workflow
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/workflows/" + workflowID,
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWorkflows returns every workflow, in engine order.
func (c *Client) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	const op = "get_all_workflows"
	var out struct {
		Workflows []models.Workflow `json:"workflows"`
	}
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/workflows",
		kind:   "workflow",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Workflows, nil
}

// UpdateWorkflow patches workflow metadata. Nil fields are left untouched.
func (c *Client) UpdateWorkflow(ctx context.Context, workflowID string, in models.UpdateWorkflowRequest) (*models.Workflow, error) {
	const op = "update_workflow"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Description == nil && in.Version == nil {
		return nil, &ValidationError{Op: op, Detail: "at least one field to update is required"}
	}

	var out models.Workflow
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPatch,
		path:   "/workflows/" + workflowID,
		body:   in,
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWorkflow removes a workflow by identifier.
func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) error {
	const op = "delete_workflow"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     op,
		method: http.MethodDelete,
		path:   "/workflows/" + workflowID,
		kind:   "workflow",
		id:     workflowID,
	}, nil)
}

// GetWorkflowDashboard fetches the engine-computed dashboard for a
// workflow. Aggregates are never recomputed locally; the engine is the
// source of truth.
func (c *Client) GetWorkflowDashboard(ctx context.Context, workflowID string) (*models.WorkflowDashboard, error) {
	const op = "get_workflow_dashboard"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}

	var out models.WorkflowDashboard
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/workflows/%s/dashboard", workflowID),
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateWorkflowYAML submits a document for engine-side validation after
// the same structural checks CreateWorkflow applies.
func (c *Client) ValidateWorkflowYAML(ctx context.Context, yamlContent string) (*models.ValidationResult, error) {
	const op = "validate_workflow_yaml"
	if err := validateWorkflowYAML(op, yamlContent); err != nil {
		return nil, err
	}

	var out models.ValidationResult
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/validate",
		body:   map[string]string{"yaml_content": yamlContent},
		kind:   "workflow",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWorkflowInputFormat fetches the input schema a workflow expects.
func (c *Client) GetWorkflowInputFormat(ctx context.Context, workflowID string) (*models.InputFormat, error) {
	const op = "get_workflow_input_format"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}

	var out models.InputFormat
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/workflows/%s/input-format", workflowID),
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
