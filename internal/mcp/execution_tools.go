package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"workflow-engine-mcp/internal/engine"
	"workflow-engine-mcp/pkg/models"
)

func (s *Server) registerExecutionTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"execute_workflow",
			mcp.WithDescription("Execute a workflow with the provided inputs"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
			mcp.WithObject("inputs", mcp.Description("Workflow inputs as a key-value mapping")),
		),
		s.handleExecuteWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_execution_status",
			mcp.WithDescription("Get the status and details of a workflow execution"),
			mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution identifier")),
		),
		s.handleGetExecutionStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_all_executions",
			mcp.WithDescription("List all workflow executions"),
		),
		s.handleGetAllExecutions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_execution_logs",
			mcp.WithDescription("Get the logs of a workflow execution"),
			mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution identifier")),
		),
		s.handleGetExecutionLogs,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_task_output",
			mcp.WithDescription("Get the detailed output of one task within an execution"),
			mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution identifier")),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The task identifier")),
		),
		s.handleGetTaskOutput,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_execution_logs",
			mcp.WithDescription("Get paginated execution history for a workflow"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow identifier")),
			mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithString("status", mcp.Description("Filter by execution status")),
			mcp.WithBoolean("include_logs", mcp.Description("Include log lines in the response")),
		),
		s.handleGetWorkflowExecutionLogs,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"wait_for_execution_completion",
			mcp.WithDescription("Poll an execution until it completes, times out, or is cancelled"),
			mcp.WithString("execution_id", mcp.Required(), mcp.Description("The execution identifier")),
			mcp.WithNumber("poll_interval", mcp.Description("Seconds between polls")),
			mcp.WithNumber("timeout", mcp.Description("Maximum seconds to wait")),
		),
		s.handleWaitForExecutionCompletion,
	)
}

func (s *Server) handleExecuteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := s.client.ExecuteWorkflow(ctx, argString(args, "workflow_id"), argMap(args, "inputs"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(ref)
}

func (s *Server) handleGetExecutionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	execution, err := s.client.GetExecutionStatus(ctx, argString(args, "execution_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(execution)
}

func (s *Server) handleGetAllExecutions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	executions, err := s.client.ListExecutions(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(executions)
}

func (s *Server) handleGetExecutionLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	logs, err := s.client.GetExecutionLogs(ctx, argString(args, "execution_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(logs)
}

func (s *Server) handleGetTaskOutput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	output, err := s.client.GetTaskOutput(ctx, argString(args, "execution_id"), argString(args, "task_id"))
	if err != nil {
		return toolError(err)
	}
	return toolResult(output)
}

func (s *Server) handleGetWorkflowExecutionLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	page, err := s.client.ListWorkflowExecutions(ctx, argString(args, "workflow_id"), engine.WorkflowExecutionsQuery{
		Page:        argInt(args, "page", 1),
		PerPage:     argInt(args, "per_page", 10),
		Status:      models.ExecutionStatus(argString(args, "status")),
		IncludeLogs: argBool(args, "include_logs", true),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(page)
}

func (s *Server) handleWaitForExecutionCompletion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}

	report, err := s.waiter.Wait(ctx, argString(args, "execution_id"), engine.WaitOptions{
		PollInterval: time.Duration(argInt(args, "poll_interval", 0)) * time.Second,
		MaxWait:      time.Duration(argInt(args, "timeout", 0)) * time.Second,
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(report)
}
