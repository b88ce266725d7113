package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"workflow-engine-mcp/pkg/models"
)

func (s *Server) registerWorkflowTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_workflow",
			mcp.WithDescription("Create a new workflow from YAML content or a structured definition"),
			mcp.WithString("yaml_content", mcp.Description("Raw YAML workflow document")),
			mcp.WithObject("workflow_data", mcp.Description("Structured workflow definition")),
		),
		s.handleCreateWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow",
			mcp.WithDescription("Get detailed workflow information"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
		),
		s.handleGetWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_all_workflows",
			mcp.WithDescription("List all workflows"),
		),
		s.handleGetAllWorkflows,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"update_workflow",
			mcp.WithDescription("Update an existing workflow's metadata"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
			mcp.WithString("name", mcp.Description("New workflow name")),
			mcp.WithString("description", mcp.Description("New workflow description")),
			mcp.WithString("version", mcp.Description("New workflow version")),
		),
		s.handleUpdateWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"delete_workflow",
			mcp.WithDescription("Delete a workflow by ID"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
		),
		s.handleDeleteWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_dashboard",
			mcp.WithDescription("Get the workflow dashboard with engine-computed metrics"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
		),
		s.handleGetWorkflowDashboard,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"validate_workflow_yaml",
			mcp.WithDescription("Validate YAML workflow content before creation"),
			mcp.WithString("yaml_content", mcp.Required(), mcp.Description("Raw YAML workflow document")),
		),
		s.handleValidateWorkflowYAML,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_input_format",
			mcp.WithDescription("Get the input schema a workflow expects"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
		),
		s.handleGetWorkflowInputFormat,
	)
}

func (s *Server) handleCreateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	workflow, err := s.client.CreateWorkflow(ctx, models.CreateWorkflowRequest{
		YAMLContent:  argString(args, "yaml_content"),
		WorkflowData: argMap(args, "workflow_data"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(workflow)
}

func (s *Server) handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	workflow, err := s.client.GetWorkflow(ctx, argString(args, "workflow_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(workflow)
}

func (s *Server) handleGetAllWorkflows(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflows, err := s.client.ListWorkflows(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(workflows)
}

func (s *Server) handleUpdateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	workflow, err := s.client.UpdateWorkflow(ctx, argString(args, "workflow_id"), models.UpdateWorkflowRequest{
		Name:        argStringPtr(args, "name"),
		Description: argStringPtr(args, "description"),
		Version:     argStringPtr(args, "version"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(workflow)
}

func (s *Server) handleDeleteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	workflowID := argString(args, "workflow_id")
	if err := s.client.DeleteWorkflow(ctx, workflowID); err != nil {
		return toolError(err)
	}
	return toolResult(map[string]string{"deleted": workflowID})
}

func (s *Server) handleGetWorkflowDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	dashboard, err := s.client.GetWorkflowDashboard(ctx, argString(args, "workflow_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(dashboard)
}

func (s *Server) handleValidateWorkflowYAML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.client.ValidateWorkflowYAML(ctx, argString(args, "yaml_content"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(result)
}

func (s *Server) handleGetWorkflowInputFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	format, err := s.client.GetWorkflowInputFormat(ctx, argString(args, "workflow_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(format)
}
