package engine

import (
	"context"
	"fmt"
	"net/http"

	"workflow-engine-mcp/pkg/models"
)

// validateTriggerKind enforces the schedule/kind invariant: a schedule
// expression is present iff the kind is scheduled.
func validateTriggerKind(op string, kind models.TriggerKind, schedule string) error {
	if !kind.Valid() {
		return &ValidationError{Op: op, Detail: fmt.Sprintf("unknown trigger_type %q", kind)}
	}
	if kind == models.TriggerScheduled && schedule == "" {
		return &ValidationError{Op: op, Detail: "schedule is required for scheduled triggers"}
	}
	if kind != models.TriggerScheduled && schedule != "" {
		return &ValidationError{Op: op, Detail: fmt.Sprintf("schedule is not allowed for %s triggers", kind)}
	}
	return nil
}

// CreateTrigger registers a new trigger for a workflow.
func (c *Client) CreateTrigger(ctx context.Context, in models.CreateTriggerRequest) (*models.Trigger, error) {
	const op = "create_trigger"
	if err := requireID(op, "name", in.Name); err != nil {
		return nil, err
	}
	if err := requireID(op, "workflow_id", in.WorkflowID); err != nil {
		return nil, err
	}
	if err := validateTriggerKind(op, in.Kind, in.Schedule); err != nil {
		return nil, err
	}

	var out models.Trigger
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/triggers",
		body:   in,
		kind:   "trigger",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTrigger fetches one trigger by identifier.
func (c *Client) GetTrigger(ctx context.Context, triggerID string) (*models.Trigger, error) {
	const op = "get_trigger"
	if err := requireUUID(op, "trigger_id", triggerID); err != nil {
		return nil, err
	}

	var out models.Trigger
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/triggers/" + triggerID,
		kind:   "trigger",
		id:     triggerID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTriggers returns every trigger, in engine order.
func (c *Client) ListTriggers(ctx context.Context) ([]models.Trigger, error) {
	const op = "get_all_triggers"
	var out struct {
		Triggers []models.Trigger `json:"triggers"`
	}
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/triggers",
		kind:   "trigger",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Triggers, nil
}

// ListWorkflowTriggers returns the triggers attached to one workflow.
func (c *Client) ListWorkflowTriggers(ctx context.Context, workflowID string) ([]models.Trigger, error) {
	const op = "get_workflow_triggers"
	if err := requireID(op, "workflow_id", workflowID); err != nil {
		return nil, err
	}

	var out struct {
		Triggers []models.Trigger `json:"triggers"`
	}
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   fmt.Sprintf("/workflows/%s/triggers", workflowID),
		kind:   "workflow",
		id:     workflowID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Triggers, nil
}

// UpdateTrigger patches trigger fields. Nil fields are left untouched.
func (c *Client) UpdateTrigger(ctx context.Context, triggerID string, in models.UpdateTriggerRequest) (*models.Trigger, error) {
	const op = "update_trigger"
	if err := requireUUID(op, "trigger_id", triggerID); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Schedule == nil && in.Enabled == nil && in.Description == nil {
		return nil, &ValidationError{Op: op, Detail: "at least one field to update is required"}
	}

	var out models.Trigger
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPatch,
		path:   "/triggers/" + triggerID,
		body:   in,
		kind:   "trigger",
		id:     triggerID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTrigger removes a trigger by identifier.
func (c *Client) DeleteTrigger(ctx context.Context, triggerID string) error {
	const op = "delete_trigger"
	if err := requireUUID(op, "trigger_id", triggerID); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     op,
		method: http.MethodDelete,
		path:   "/triggers/" + triggerID,
		kind:   "trigger",
		id:     triggerID,
	}, nil)
}

// ExecuteTrigger fires a trigger manually with optional inputs.
func (c *Client) ExecuteTrigger(ctx context.Context, triggerID string, inputs map[string]any) (*models.ExecutionRef, error) {
	const op = "execute_trigger"
	if err := requireUUID(op, "trigger_id", triggerID); err != nil {
		return nil, err
	}
	if inputs == nil {
		inputs = map[string]any{}
	}

	var out models.ExecutionRef
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   fmt.Sprintf("/triggers/%s/execute", triggerID),
		body:   map[string]any{"inputs": inputs},
		kind:   "trigger",
		id:     triggerID,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ExecutionID == "" {
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("engine response missing execution_id")}
	}
	return &out, nil
}
