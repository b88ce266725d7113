package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSystemTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workers_status",
			mcp.WithDescription("Get the status of all workflow workers"),
		),
		s.handleGetWorkersStatus,
	)
}

func (s *Server) handleGetWorkersStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.client.GetWorkersStatus(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(status)
}
