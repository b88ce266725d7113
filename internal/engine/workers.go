package engine

import (
	"context"
	"net/http"

	"workflow-engine-mcp/pkg/models"
)

// GetWorkersStatus fetches the engine-wide worker fleet report.
func (c *Client) GetWorkersStatus(ctx context.Context) (*models.WorkersStatus, error) {
	const op = "get_workers_status"
	var out models.WorkersStatus
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/workers/status",
		kind:   "workers",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
