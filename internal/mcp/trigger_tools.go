package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"workflow-engine-mcp/pkg/models"
)

func (s *Server) registerTriggerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_trigger",
			mcp.WithDescription("Create a new trigger for workflow automation"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Trigger name")),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow to trigger")),
			mcp.WithString("trigger_type", mcp.Required(), mcp.Description("One of scheduled, manual, webhook")),
			mcp.WithString("schedule", mcp.Description("Schedule expression, required for scheduled triggers")),
			mcp.WithBoolean("enabled", mcp.Description("Whether the trigger starts enabled (default true)")),
			mcp.WithString("description", mcp.Description("Trigger description")),
			mcp.WithObject("config", mcp.Description("Trigger-specific configuration")),
			mcp.WithObject("input_mapping", mcp.Description("Mapping of trigger payload to workflow inputs")),
		),
		s.handleCreateTrigger,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_all_triggers",
			mcp.WithDescription("List all triggers"),
		),
		s.handleGetAllTriggers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_trigger",
			mcp.WithDescription("Get specific trigger details"),
			mcp.WithString("trigger_id", mcp.Required(), mcp.Description("The trigger identifier")),
		),
		s.handleGetTrigger,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_triggers",
			mcp.WithDescription("List the triggers attached to a workflow"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
		),
		s.handleGetWorkflowTriggers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"update_trigger",
			mcp.WithDescription("Update an existing trigger"),
			mcp.WithString("trigger_id", mcp.Required(), mcp.Description("The trigger identifier")),
			mcp.WithString("name", mcp.Description("New trigger name")),
			mcp.WithString("schedule", mcp.Description("New schedule expression")),
			mcp.WithBoolean("enabled", mcp.Description("Enable or disable the trigger")),
			mcp.WithString("description", mcp.Description("New trigger description")),
		),
		s.handleUpdateTrigger,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"delete_trigger",
			mcp.WithDescription("Delete a trigger by ID"),
			mcp.WithString("trigger_id", mcp.Required(), mcp.Description("The trigger identifier")),
		),
		s.handleDeleteTrigger,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"execute_trigger",
			mcp.WithDescription("Manually execute a trigger with custom inputs"),
			mcp.WithString("trigger_id", mcp.Required(), mcp.Description("The trigger identifier")),
			mcp.WithObject("inputs", mcp.Description("Inputs as a key-value mapping")),
		),
		s.handleExecuteTrigger,
	)
}

func (s *Server) handleCreateTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	trigger, err := s.client.CreateTrigger(ctx, models.CreateTriggerRequest{
		Name:         argString(args, "name"),
		WorkflowID:   argString(args, "workflow_id"),
		Kind:         models.TriggerKind(argString(args, "trigger_type")),
		Schedule:     argString(args, "schedule"),
		Enabled:      argBool(args, "enabled", true),
		Description:  argString(args, "description"),
		Config:       argMap(args, "config"),
		InputMapping: argMap(args, "input_mapping"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(trigger)
}

func (s *Server) handleGetAllTriggers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	triggers, err := s.client.ListTriggers(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(triggers)
}

func (s *Server) handleGetTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	trigger, err := s.client.GetTrigger(ctx, argString(args, "trigger_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(trigger)
}

func (s *Server) handleGetWorkflowTriggers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	triggers, err := s.client.ListWorkflowTriggers(ctx, argString(args, "workflow_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(triggers)
}

func (s *Server) handleUpdateTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	trigger, err := s.client.UpdateTrigger(ctx, argString(args, "trigger_id"), models.UpdateTriggerRequest{
		Name:        argStringPtr(args, "name"),
		Schedule:    argStringPtr(args, "schedule"),
		Enabled:     argBoolPtr(args, "enabled"),
		Description: argStringPtr(args, "description"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(trigger)
}

func (s *Server) handleDeleteTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	triggerID := argString(args, "trigger_id")
	if err := s.client.DeleteTrigger(ctx, triggerID); err != nil {
		return toolError(err)
	}
	return toolResult(map[string]string{"deleted": triggerID})
}

func (s *Server) handleExecuteTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := s.client.ExecuteTrigger(ctx, argString(args, "trigger_id"), argMap(args, "inputs"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(ref)
}
